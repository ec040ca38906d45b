package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeMailInvitation    = "mail:invitation"
	TypeMailPasswordReset = "mail:password_reset"
	TypeMailUserQuery     = "mail:user_query"
)

// InvitationMailPayload carries a team invitation to the worker.
type InvitationMailPayload struct {
	To        string `json:"to"`
	OwnerName string `json:"owner_name"`
	Token     string `json:"token"`
	Path      string `json:"path"` // /login or /signup
}

func NewInvitationMailTask(payload InvitationMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMailInvitation, data, asynq.Queue("mail")), nil
}

// PasswordResetMailPayload carries a reset link to the worker.
type PasswordResetMailPayload struct {
	To    string `json:"to"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func NewPasswordResetMailTask(payload PasswordResetMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMailPasswordReset, data, asynq.Queue("mail")), nil
}

// UserQueryMailPayload forwards a contact-form message.
type UserQueryMailPayload struct {
	FromEmail string `json:"from_email"`
	Name      string `json:"name"`
	Message   string `json:"message"`
}

func NewUserQueryMailTask(payload UserQueryMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMailUserQuery, data, asynq.Queue("mail")), nil
}
