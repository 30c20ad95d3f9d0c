package email

import (
	"context"
	"fmt"
	"time"

	"stocktrack/internal/auth/config"
	"stocktrack/internal/auth/domain/model"
	"stocktrack/internal/shared/logger"

	"github.com/mailgun/mailgun-go/v5"
)

// Service sends account emails through Mailgun. When no API key or
// domain is configured the service is disabled and sends are reported
// as errors, which callers treat as non-fatal.
type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	verifyURL   string
	enabled     bool
	log         logger.Logger
}

func NewService(cfg *config.Config, log logger.Logger) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		verifyURL:   cfg.VerificationURL,
		enabled:     enabled,
		log:         log.WithComponent("email"),
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

// SendVerificationEmail dispatches the address-verification email sent
// at sign-up.
func (s *Service) SendVerificationEmail(ctx context.Context, profile *model.Profile) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	subject := "Verify your StockTrack email address"
	textBody := fmt.Sprintf(
		"Hi %s,\n\nPlease verify your email address by visiting:\n\n%s?uid=%s\n\nIf you did not create a StockTrack account, ignore this message.\n",
		profile.FirstName, s.verifyURL, profile.UID,
	)

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		profile.Email,
	)
	message.SetHTML(s.generateVerificationHTML(profile))

	sendCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(sendCtx, message)
	if err != nil {
		return fmt.Errorf("failed to send verification email to %s: %w", profile.Email, err)
	}

	s.log.Infof("Verification email sent to %s (Message ID: %s)", profile.Email, resp)
	return nil
}

func (s *Service) generateVerificationHTML(profile *model.Profile) string {
	return fmt.Sprintf(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Welcome to StockTrack, %s!</h2>
  <p>Please confirm your email address to finish setting up your account.</p>
  <p><a href="%s?uid=%s">Verify email address</a></p>
  <p>If you did not create a StockTrack account, you can safely ignore this message.</p>
</body>
</html>`, profile.FirstName, s.verifyURL, profile.UID)
}
