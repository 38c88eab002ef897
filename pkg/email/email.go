// Package email provides SMTP delivery for invitation mail.
package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when SMTP is not configured.
	ErrNotConfigured = errors.New("email: SMTP not configured")
	// ErrInvalidRecipient is returned when the recipient email is invalid.
	ErrInvalidRecipient = errors.New("email: invalid recipient email")
	// ErrSendFailed is returned when email sending fails.
	ErrSendFailed = errors.New("email: failed to send email")
)

// Config holds SMTP configuration. It is built from the admin-managed
// settings row, not from environment variables.
type Config struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	FromName   string
	TLS        bool
	SkipVerify bool
	Timeout    time.Duration
}

// Message represents an email message.
type Message struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
	Headers map[string]string
}

// Sender defines the interface for sending emails.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
	IsConfigured() bool
}

// Factory builds a Sender from a configuration. The invitation dispatcher
// uses it to honor SMTP settings changed at runtime.
type Factory func(cfg Config) Sender

// SMTPSender implements Sender over net/smtp.
type SMTPSender struct {
	config Config
}

// NewSMTPSender creates a new SMTP sender.
func NewSMTPSender(cfg Config) *SMTPSender {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &SMTPSender{config: cfg}
}

// IsConfigured returns true if SMTP is properly configured.
func (s *SMTPSender) IsConfigured() bool {
	return s.config.Host != "" && s.config.Port > 0 && s.config.From != ""
}

// Send sends an email message.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return ErrInvalidRecipient
	}

	content := s.buildMessage(msg)
	if err := s.sendSMTP(ctx, msg.To, content); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}
	return nil
}

// Verify connects and authenticates without sending anything. Backs the
// admin "test connection" endpoint.
func (s *SMTPSender) Verify(ctx context.Context) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.Quit()
}

func (s *SMTPSender) buildMessage(msg *Message) []byte {
	var builder strings.Builder

	if s.config.FromName != "" {
		builder.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	} else {
		builder.WriteString(fmt.Sprintf("From: %s\r\n", s.config.From))
	}

	builder.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))

	for key, value := range msg.Headers {
		builder.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}

	builder.WriteString("MIME-Version: 1.0\r\n")
	if msg.IsHTML {
		builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}

	builder.WriteString("\r\n")
	builder.WriteString(msg.Body)

	return []byte(builder.String())
}

func (s *SMTPSender) connect(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	dialer := &net.Dialer{Timeout: s.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if s.config.TLS {
		tlsConfig := &tls.Config{
			ServerName:         s.config.Host,
			InsecureSkipVerify: s.config.SkipVerify,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.config.User != "" && s.config.Password != "" {
		auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("authentication failed: %w", err)
		}
	}

	return client, nil
}

func (s *SMTPSender) sendSMTP(ctx context.Context, to []string, content []byte) error {
	client, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	return client.Quit()
}

// NoOpSender is a sender that does nothing (for development/testing).
type NoOpSender struct{}

// NewNoOpSender creates a new no-op sender.
func NewNoOpSender() *NoOpSender {
	return &NoOpSender{}
}

// IsConfigured always returns true for no-op sender.
func (s *NoOpSender) IsConfigured() bool {
	return true
}

// Send does nothing and returns nil.
func (s *NoOpSender) Send(_ context.Context, _ *Message) error {
	return nil
}

// Logger is a minimal logging interface.
type Logger interface {
	Info(msg string, args ...any)
}

// LoggingSender wraps a sender and logs all email operations.
type LoggingSender struct {
	sender Sender
	logger Logger
}

// NewLoggingSender creates a new logging sender.
func NewLoggingSender(sender Sender, logger Logger) *LoggingSender {
	return &LoggingSender{sender: sender, logger: logger}
}

// IsConfigured returns true if the underlying sender is configured.
func (s *LoggingSender) IsConfigured() bool {
	return s.sender.IsConfigured()
}

// Send logs and sends the email.
func (s *LoggingSender) Send(ctx context.Context, msg *Message) error {
	s.logger.Info("sending email", "to", msg.To, "subject", msg.Subject)
	err := s.sender.Send(ctx, msg)
	if err != nil {
		s.logger.Info("email send failed", "to", msg.To, "error", err)
		return err
	}
	s.logger.Info("email sent", "to", msg.To)
	return nil
}
