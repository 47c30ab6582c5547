package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/gget5897-gif/brainrot-bot/internal/config"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrNoRecipients is returned when no admin e-mail addresses are configured.
var ErrNoRecipients = errors.New("no recipients provided for email")

// dialSender is the part of *gomail.Dialer the alerter uses.
type dialSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPAlerter mails plain-text alerts to the configured administrators.
type SMTPAlerter struct {
	from   string
	to     []string
	d      dialSender
	logger *logger.Logger
}

func NewSMTPAlerter(cfg config.SMTPConfig, to []string, log *logger.Logger) (*SMTPAlerter, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}
	if len(to) == 0 {
		return nil, ErrNoRecipients
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	if cfg.Port == 465 {
		dialer.SSL = true
	}
	return &SMTPAlerter{from: cfg.SenderEmail, to: to, d: dialer, logger: log.Named("SMTPAlerter")}, nil
}

// Alert sends one message to every admin address. The dial runs in its
// own goroutine so ctx cancellation returns promptly.
func (s *SMTPAlerter) Alert(ctx context.Context, subject, body string) error {
	if len(s.to) == 0 {
		return ErrNoRecipients
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() { done <- s.d.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		s.logger.Warn("Email sending cancelled", zap.String("subject", subject), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send email", zap.Strings("to", s.to), zap.String("subject", subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	s.logger.Info("Email sent", zap.Strings("to", s.to), zap.String("subject", subject))
	return nil
}
