package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appURL    string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appURL:    appURL,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendInviteEmail mails the one-time setup link to a newly invited
// user. In development the link is logged instead of sent.
func (s *EmailService) SendInviteEmail(email, name, token string, role model.Role) error {
	inviteURL := fmt.Sprintf("%s/auth/invite/%s", s.appURL, token)
	subject := fmt.Sprintf("%s - você foi convidado", s.appName)
	body := fmt.Sprintf(
		"Olá %s,\n\nVocê foi convidado para acessar o portal %s como %s.\n\nAcesse o link abaixo para concluir seu cadastro:\n%s\n\nO link expira em alguns dias.\n",
		name, s.appName, roleLabel(role), inviteURL,
	)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "invite", "to", email, "subject", subject, "url", inviteURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", "invite", "to", email)
	}
	return err
}

func roleLabel(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return "administrador"
	case model.RoleProfessional:
		return "profissional"
	default:
		return "cliente"
	}
}
