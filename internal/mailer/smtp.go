package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/wneessen/go-mail"
)

const (
	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = 587
)

// smtpClient is the part of *mail.Client the transport uses.
type smtpClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
	DialWithContext(ctx context.Context) error
	Close() error
}

// SMTPTransport sends mail over SMTP with mandatory STARTTLS.
type SMTPTransport struct {
	client   smtpClient
	from     string
	fromName string
}

// SMTPConfig holds configuration for the SMTP transport.
type SMTPConfig struct {
	Host     string // default: smtp.gmail.com
	Port     int    // default: 587
	Username string // also the From address
	Password string
	FromName string
	Timeout  time.Duration // default: 30s
}

// NewSMTPTransport creates an SMTP transport.
func NewSMTPTransport(cfg SMTPConfig) (*SMTPTransport, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("smtp username and password are required")
	}
	if cfg.Host == "" {
		cfg.Host = defaultSMTPHost
	}
	if cfg.Port == 0 {
		cfg.Port = defaultSMTPPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPTransport{
		client:   client,
		from:     cfg.Username,
		fromName: cfg.FromName,
	}, nil
}

// Name returns the transport name.
func (t *SMTPTransport) Name() string {
	return "smtp"
}

// Send delivers one envelope.
func (t *SMTPTransport) Send(ctx context.Context, env Envelope) Result {
	msg, err := t.message(env)
	if err != nil {
		return Result{Message: err.Error()}
	}

	if err := t.client.DialAndSendWithContext(ctx, msg); err != nil {
		slog.Debug("smtp send failed", "to", env.To, "error", err)
		return Result{Message: err.Error()}
	}
	return Result{OK: true, Message: "sent"}
}

func (t *SMTPTransport) message(env Envelope) (*mail.Msg, error) {
	if len(env.To) == 0 {
		return nil, fmt.Errorf("no recipient")
	}

	msg := mail.NewMsg()
	if t.fromName != "" {
		if err := msg.FromFormat(t.fromName, t.from); err != nil {
			return nil, fmt.Errorf("set from: %w", err)
		}
	} else if err := msg.From(t.from); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(env.To...); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	if len(env.Cc) > 0 {
		if err := msg.Cc(env.Cc...); err != nil {
			return nil, fmt.Errorf("set cc: %w", err)
		}
	}
	if env.ReplyTo != "" {
		if err := msg.ReplyTo(env.ReplyTo); err != nil {
			return nil, fmt.Errorf("set reply-to: %w", err)
		}
	}

	msg.Subject(env.Subject)
	msg.SetBodyString(mail.TypeTextHTML, WrapHTML(env.HTMLBody))

	for _, path := range env.Attachments {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("attachment %s: %w", filepath.Base(path), err)
		}
		msg.AttachFile(path)
	}
	return msg, nil
}

// ValidateCredentials dials and authenticates without sending.
func (t *SMTPTransport) ValidateCredentials(ctx context.Context) error {
	if err := t.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp login: %w", err)
	}
	return t.client.Close()
}
