package utils

import (
	"fmt"

	"github.com/vastuconnect/booking_backend/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends plain text email over SMTP
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled reports whether SMTP is configured well enough to send
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Host != "" && m.cfg.User != "" && m.cfg.Password != ""
}

func (m *Mailer) sender() string {
	if m.cfg.From != "" {
		return m.cfg.From
	}
	return m.cfg.User
}

// SendEmail delivers one message to a single recipient
func (m *Mailer) SendEmail(to, subject, body string) error {
	if !m.Enabled() {
		return fmt.Errorf("SMTP configuration is incomplete: check SMTP_HOST, SMTP_USER and SMTP_PASS")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender())
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
