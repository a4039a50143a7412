// Package mailer delivers the rendered deck by email.
package mailer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wneessen/go-mail"

	"github.com/bilgisen/technews/internal/config"
	"github.com/bilgisen/technews/internal/logger"
)

// Sender delivers a deck file to the configured recipients.
type Sender interface {
	Send(ctx context.Context, deckPath string) error
}

// SMTPSender sends one message, with every recipient in the To header,
// through an SMTP relay using STARTTLS.
type SMTPSender struct {
	host       string
	port       int
	from       string
	password   string
	recipients []string
	timeout    time.Duration
	now        func() time.Time
}

// NewSMTPSender checks sender credentials and recipients up front; nothing
// touches the network until Send.
func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	if cfg.SenderEmail == "" || cfg.SenderPassword == "" {
		return nil, config.ErrMissingSender
	}
	if len(cfg.Recipients) == 0 {
		return nil, config.ErrNoRecipients
	}

	v := validator.New()
	if err := v.Var(cfg.SenderEmail, "email"); err != nil {
		return nil, fmt.Errorf("invalid sender address %q", cfg.SenderEmail)
	}
	for _, r := range cfg.Recipients {
		if err := v.Var(r, "email"); err != nil {
			return nil, fmt.Errorf("invalid recipient address %q", r)
		}
	}

	timeout := cfg.SMTPTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &SMTPSender{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		from:       cfg.SenderEmail,
		password:   cfg.SenderPassword,
		recipients: append([]string(nil), cfg.Recipients...),
		timeout:    timeout,
		now:        time.Now,
	}, nil
}

// Recipients returns a copy of the recipient list.
func (s *SMTPSender) Recipients() []string {
	return append([]string(nil), s.recipients...)
}

// Send mails the deck. Any failure is returned to the caller.
func (s *SMTPSender) Send(ctx context.Context, deckPath string) error {
	msg, err := s.buildMessage(deckPath)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.from),
		mail.WithPassword(s.password),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send newsletter: %w", err)
	}

	logger.WithComponent("mailer").Info().
		Int("recipients", len(s.recipients)).
		Str("deck", filepath.Base(deckPath)).
		Msg("Newsletter sent")
	return nil
}

func (s *SMTPSender) buildMessage(deckPath string) (*mail.Msg, error) {
	if _, err := os.Stat(deckPath); err != nil {
		return nil, fmt.Errorf("deck attachment: %w", err)
	}

	now := s.now()
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(s.recipients...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(Subject(now))
	msg.SetDateWithValue(now)

	msg.SetBodyString(mail.TypeTextPlain, plainBody(now))
	html, err := htmlBody(now)
	if err != nil {
		return nil, err
	}
	msg.AddAlternativeString(mail.TypeTextHTML, html)

	msg.AttachFile(deckPath,
		mail.WithFileName(filepath.Base(deckPath)),
		mail.WithFileContentType(mail.ContentType("application/pdf")),
	)
	return msg, nil
}
