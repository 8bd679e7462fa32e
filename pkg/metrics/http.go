package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request latency keyed by route pattern, so path
// parameters such as product ids do not explode cardinality.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests currently being served.",
	})
	reg.MustRegister(duration, inflight)
	return &HTTPMetrics{duration: duration, inflight: inflight}
}

func (m *HTTPMetrics) Started() {
	if m == nil || m.inflight == nil {
		return
	}
	m.inflight.Inc()
}

// Finished records one completed request and releases its in-flight slot.
func (m *HTTPMetrics) Finished(route, method string, status int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.inflight.Dec()
	m.duration.WithLabelValues(normalizeLabel(route), method, strconv.Itoa(status)).Observe(duration.Seconds())
}
