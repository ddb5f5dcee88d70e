// Package mailer delivers HTML email over SMTP. Delivery is best-effort:
// callers enqueue sends through the worker and never block on them.
package mailer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jobportal/jobportal/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail through the configured SMTP relay.
type Mailer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Mailer.
func New(cfg *config.Config, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers one message. When SMTP is not configured the send is skipped
// with a warning so development environments work without a relay.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.cfg.SMTPHost == "" || m.cfg.FromEmail == "" {
		m.logger.Warn("smtp not configured, skipping email", "to", to, "subject", subject)
		return nil
	}
	if strings.TrimSpace(to) == "" {
		m.logger.Warn("email recipient empty, skipping email", "subject", subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.FromEmail)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
