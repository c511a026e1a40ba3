package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vortisllc/memre-backend/internal/config"
	mail "github.com/wneessen/go-mail"
)

// Mailer sends plain-text notification mail.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// New returns an SMTP-backed mailer, or a no-op one when no SMTP host is
// configured so development setups keep working without a relay.
func New(cfg *config.Config) (Mailer, error) {
	if cfg.SMTPHost == "" {
		slog.Warn("SMTP_HOST not set, outbound mail disabled")
		return &noopMailer{}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &smtpMailer{client: client, from: cfg.SMTPFrom}, nil
}

type smtpMailer struct {
	client *mail.Client
	from   string
}

func (m *smtpMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("to addresses: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

type noopMailer struct{}

func (n *noopMailer) Send(ctx context.Context, to []string, subject, body string) error {
	slog.Info("mail suppressed", "to", to, "subject", subject)
	return nil
}
