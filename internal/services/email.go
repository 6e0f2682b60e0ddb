package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"partyreg/internal/domain"
)

const loginCodeTemplate = "login_code"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

func (s *emailService) SendLoginCode(ctx context.Context, data *domain.LoginCodeEmailData) error {
	if data == nil || data.Email == "" || data.Code == "" {
		return fmt.Errorf("%w: login code email needs a recipient and a code", domain.ErrInvalidInput)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(loginCodeTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render login code email: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send login code email: %w", err)
	}
	slog.InfoContext(ctx, "login code email sent", "to", maskEmail(data.Email))
	return nil
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(email string) string {
	local, domainPart, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domainPart
}
