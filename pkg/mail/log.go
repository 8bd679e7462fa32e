package mail

import (
	"context"

	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

// LogSender writes messages to the structured log instead of sending them.
// It is the dev fallback when no transport is configured.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"mail_kind":     msg.Kind,
		"mail_to":       msg.To,
		"mail_reply_to": msg.ReplyTo,
		"mail_subject":  msg.Subject,
		"mail_text":     msg.Text,
	})
	s.logg.Info(ctx, "mail.logged")
	return nil
}
