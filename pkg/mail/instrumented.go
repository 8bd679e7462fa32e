package mail

import (
	"context"
	"time"

	"github.com/angelmondragon/carpenter-backend/pkg/metrics"
)

// Instrumented wraps a Sender with per-kind send metrics.
type Instrumented struct {
	next    Sender
	metrics *metrics.MailMetrics
	now     func() time.Time
}

func NewInstrumented(next Sender, m *metrics.MailMetrics) *Instrumented {
	return &Instrumented{next: next, metrics: m, now: time.Now}
}

func (i *Instrumented) Send(ctx context.Context, msg Message) error {
	start := i.now()
	err := i.next.Send(ctx, msg)
	i.metrics.ObserveDuration(msg.Kind, i.now().Sub(start))
	if err != nil {
		i.metrics.IncFailed(msg.Kind)
		return err
	}
	i.metrics.IncSent(msg.Kind)
	return nil
}
