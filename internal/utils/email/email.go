package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Unknownaod/opslinkOS/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// Enabled reports whether SMTP delivery is configured. Registration works
// without it; the welcome mail is a notification, not a verification step.
func (s *Sender) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.SenderEmail != ""
}

// SendWelcome sends a welcome email to a freshly registered user
func (s *Sender) SendWelcome(to, username string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to OpsLink"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your OpsLink account has been created.\n"+
			"You can now sign in with your username or this email address.\n"+
			"\nBest regards,\nOpsLink",
		username,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
