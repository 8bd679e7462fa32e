package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

// ErrNotConfigured is returned by the sender used when no transport is
// configured outside of dev.
var ErrNotConfigured = errors.New("email transport is not configured")

// Message is one outbound email with both a plain text and an HTML body.
type Message struct {
	Kind     string
	FromName string
	From     string
	To       string
	ReplyTo  string
	Subject  string
	Text     string
	HTML     string
}

func (m Message) validate() error {
	switch {
	case strings.TrimSpace(m.From) == "":
		return fmt.Errorf("from address is empty")
	case strings.TrimSpace(m.To) == "":
		return fmt.Errorf("to address is empty")
	case strings.TrimSpace(m.Subject) == "":
		return fmt.Errorf("subject is empty")
	}
	return nil
}

// Sender delivers messages through one transport.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the transport from config. In dev a missing or incomplete
// configuration degrades to the log transport; elsewhere it yields a sender
// that fails every send so misconfiguration surfaces as a request error.
func New(cfg *config.Config, logg *logger.Logger) Sender {
	if err := cfg.ValidateEmail(); err != nil {
		if cfg.App.IsDev() {
			if logg != nil {
				logg.Warn(logg.WithField(context.Background(), "reason", err.Error()), "email transport not configured, logging messages instead")
			}
			return NewLogSender(logg)
		}
		if logg != nil {
			logg.Error(context.Background(), "email transport not configured", err)
		}
		return unconfigured{reason: err}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Email.Transport)) {
	case config.EmailTransportSendgrid:
		return NewSendGridSender(cfg.Sendgrid.APIKey)
	case config.EmailTransportLog:
		return NewLogSender(logg)
	default:
		return NewSMTPSender(cfg.SMTP)
	}
}

type unconfigured struct {
	reason error
}

func (u unconfigured) Send(context.Context, Message) error {
	return fmt.Errorf("%w: %v", ErrNotConfigured, u.reason)
}
