// Package mailer delivers single-recipient HTML emails.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/pkg/config"
)

// Sender delivers one message to one address.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// New returns an SMTP sender when mail is enabled, otherwise a sender that only logs.
func New(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	if !cfg.Enabled {
		return NewLogSender(logger), nil
	}
	return NewSMTPSender(cfg)
}

// SMTPSender relays messages through the configured SMTP server.
type SMTPSender struct {
	from   string
	client *mail.Client
}

// NewSMTPSender builds a go-mail client from cfg.
func NewSMTPSender(cfg config.MailConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("mail server is required")
	}
	if cfg.DefaultSender == "" {
		return nil, errors.New("mail default sender is required")
	}

	var opts []mail.Option
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}
	return &SMTPSender{from: cfg.DefaultSender, client: client}, nil
}

// Send dials the server and delivers a single message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := buildMessage(s.from, to, subject, htmlBody)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the message and reports success.
func (s *LogSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.logger.Info("mail delivery disabled, message logged",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(htmlBody)),
	)
	return nil
}
