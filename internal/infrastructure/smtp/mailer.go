package smtp

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-gate/internal/config"
	"github.com/storefront-gate/internal/domain"
	"github.com/wneessen/go-mail"
)

// Mailer sends notifications as plain-text e-mail to the operators' address.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
}

func NewMailer(cfg config.SMTPConfig, timeout time.Duration) (*Mailer, error) {
	// The TLS port policy resets the port, so WithPort must follow it.
	opts := []mail.Option{mail.WithTLSPortPolicy(mail.NoTLS)}
	if cfg.TLS {
		opts = []mail.Option{mail.WithTLSPortPolicy(mail.TLSMandatory)}
	}
	opts = append(opts, mail.WithPort(cfg.Port), mail.WithTimeout(timeout))
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create mail client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From, to: cfg.To}, nil
}

func (m *Mailer) Name() string { return "smtp" }

func (m *Mailer) Send(ctx context.Context, n *domain.Notification) error {
	msg, err := m.message(n)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail %s: %w", n.ID, err)
	}
	return nil
}

func (m *Mailer) message(n *domain.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(n.Subject)
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, n.Body)
	return msg, nil
}
