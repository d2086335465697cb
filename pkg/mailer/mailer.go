// Package mailer delivers transactional email. The service only sends
// password-reset links; delivery is fire-and-report with no retries or
// delivery guarantee.
package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/openshelf/openshelf/pkg/observability"
)

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer for the given relay.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer logs instead of sending. Used in dev mode when no SMTP relay
// is configured. The body (which contains the reset link) is logged at
// debug level only.
type LogMailer struct {
	logger *observability.Logger
}

// NewLogMailer creates a log-only mailer.
func NewLogMailer(logger *observability.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.WithFields(map[string]interface{}{
		"to":      to,
		"subject": subject,
	}).Info("mail suppressed (log mailer)")
	m.logger.WithField("body", body).Debug("mail body")
	return nil
}
