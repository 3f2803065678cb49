package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/application/port"
)

// Config holds SMTP relay configuration
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Sender delivers workflow notifications over SMTP
type Sender struct {
	config Config
	logger *zap.Logger

	// send is swapped in tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates a new email sender
func NewSender(config Config, logger *zap.Logger) *Sender {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Sender{
		config: config,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send implements port.Mailer
func (s *Sender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	msg := s.buildMessage(to, subject, body)

	// smtp.SendMail has no context support; run it on the side and honor
	// cancellation and the configured timeout here.
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.send(addr, auth, s.config.From, to, msg)
	}()

	timer := time.NewTimer(s.config.Timeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error("Failed to send email",
				zap.String("subject", subject),
				zap.Int("recipients", len(to)),
				zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
		s.logger.Info("Email sent", zap.String("subject", subject), zap.Int("recipients", len(to)))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("smtp send timed out after %s", s.config.Timeout)
	}
}

func (s *Sender) buildMessage(to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

var _ port.Mailer = (*Sender)(nil)
