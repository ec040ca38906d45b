// Package mail delivers transactional email through SendGrid. Messages are
// rendered from small inline HTML templates; delivery normally happens on the
// worker via the tasks package so request paths stay fire-and-forget.
package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/aiquanty/Quanty-Backend/pkg/config"
)

type Service struct {
	client    *sendgrid.Client
	from      string
	fromName  string
	forgotURL string
	inviteURL string
}

func New(cfg *config.MailConfig) *Service {
	return &Service{
		client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:      cfg.FromAddress,
		fromName:  cfg.FromName,
		forgotURL: cfg.ForgotPasswordURL,
		inviteURL: cfg.InvitationURL,
	}
}

var forgotPasswordTmpl = template.Must(template.New("forgotPassword").Parse(`<p>Hello {{.Name}},</p>
<p>Please click the below link to reset your password</p>
<p><a href='{{.URL}}'>Reset Password</a></p>
<p>If you did not request this email you can safely ignore it.</p>`))

var invitationTmpl = template.Must(template.New("invitation").Parse(`<p>Invitation from {{.Name}}</p>
<p>Please click the below link to join the team</p>
<p><a href='{{.URL}}'>Join Team</a></p>
<p>If you did not request this email you can safely ignore it.</p>`))

var userQueryTmpl = template.Must(template.New("userQuery").Parse(`<p>Query from {{.Name}} ({{.Email}})</p>
<p>{{.Message}}</p>`))

// SendPasswordReset mails a signed reset link.
func (s *Service) SendPasswordReset(to, name, token string) error {
	url := fmt.Sprintf("%s/?token=%s", s.forgotURL, token)
	html, err := render(forgotPasswordTmpl, map[string]string{"Name": name, "URL": url})
	if err != nil {
		return err
	}
	return s.send(to, "Reset Password", html)
}

// SendInvitation mails a team invitation. Path is /login or /signup depending
// on whether the invitee already has an account.
func (s *Service) SendInvitation(to, ownerName, token, path string) error {
	url := fmt.Sprintf("%s%s/?token=%s", s.inviteURL, path, token)
	html, err := render(invitationTmpl, map[string]string{"Name": ownerName, "URL": url})
	if err != nil {
		return err
	}
	return s.send(to, "Invitation link to join team", html)
}

// SendUserQuery forwards a contact-form message to the support inbox.
func (s *Service) SendUserQuery(fromEmail, name, message string) error {
	html, err := render(userQueryTmpl, map[string]string{
		"Name":    name,
		"Email":   fromEmail,
		"Message": message,
	})
	if err != nil {
		return err
	}
	return s.send(s.from, "User query", html)
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering mail template: %w", err)
	}
	return buf.String(), nil
}

func (s *Service) send(to, subject, html string) error {
	from := sgmail.NewEmail(s.fromName, s.from)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmail(from, subject, recipient, "", html)

	response, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("sending mail via sendgrid: %w", err)
	}
	if response.StatusCode >= 300 {
		return fmt.Errorf("unexpected sendgrid status code: %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
