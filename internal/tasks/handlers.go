package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/aiquanty/Quanty-Backend/internal/mail"
)

type Handler struct {
	mailer *mail.Service
	logger *slog.Logger
}

func NewHandler(mailer *mail.Service, logger *slog.Logger) *Handler {
	return &Handler{mailer: mailer, logger: logger}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeMailInvitation, h.HandleInvitationMail)
	mux.HandleFunc(TypeMailPasswordReset, h.HandlePasswordResetMail)
	mux.HandleFunc(TypeMailUserQuery, h.HandleUserQueryMail)
}

func (h *Handler) HandleInvitationMail(ctx context.Context, t *asynq.Task) error {
	var payload InvitationMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling invitation payload: %w", err)
	}

	h.logger.Info("sending invitation mail", "to", payload.To)
	if err := h.mailer.SendInvitation(payload.To, payload.OwnerName, payload.Token, payload.Path); err != nil {
		h.logger.Error("invitation mail failed", "to", payload.To, "error", err)
		return err
	}
	return nil
}

func (h *Handler) HandlePasswordResetMail(ctx context.Context, t *asynq.Task) error {
	var payload PasswordResetMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling password reset payload: %w", err)
	}

	h.logger.Info("sending password reset mail", "to", payload.To)
	if err := h.mailer.SendPasswordReset(payload.To, payload.Name, payload.Token); err != nil {
		h.logger.Error("password reset mail failed", "to", payload.To, "error", err)
		return err
	}
	return nil
}

func (h *Handler) HandleUserQueryMail(ctx context.Context, t *asynq.Task) error {
	var payload UserQueryMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling user query payload: %w", err)
	}

	if err := h.mailer.SendUserQuery(payload.FromEmail, payload.Name, payload.Message); err != nil {
		h.logger.Error("user query mail failed", "from", payload.FromEmail, "error", err)
		return err
	}
	return nil
}
