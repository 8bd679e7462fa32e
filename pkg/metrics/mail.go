package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MailMetrics records outbound email attempts per message kind
// (quote_internal, quote_customer, contact_internal, contact_customer).
type MailMetrics struct {
	duration *prometheus.HistogramVec
	sent     *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewMailMetrics registers the mail metrics on the provided registerer.
func NewMailMetrics(reg prometheus.Registerer) *MailMetrics {
	if reg == nil {
		return &MailMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mail_send_duration_seconds",
		Help:    "Duration of outbound mail sends in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_sent_total",
		Help: "Outbound mails accepted by the transport.",
	}, []string{"kind"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_failed_total",
		Help: "Outbound mails rejected by or not delivered to the transport.",
	}, []string{"kind"})
	reg.MustRegister(duration, sent, failed)
	return &MailMetrics{
		duration: duration,
		sent:     sent,
		failed:   failed,
	}
}

// ObserveDuration records how long a send of the given kind took.
func (m *MailMetrics) ObserveDuration(kind string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(kind)).Observe(duration.Seconds())
}

func (m *MailMetrics) IncSent(kind string) {
	if m == nil || m.sent == nil {
		return
	}
	m.sent.WithLabelValues(normalizeLabel(kind)).Inc()
}

func (m *MailMetrics) IncFailed(kind string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(kind)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
