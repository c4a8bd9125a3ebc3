package uploader

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/lookalike/internal/recognition"
)

const (
	outcomeSucceeded  = "succeeded"
	outcomeFailed     = "failed"
	outcomeNoFile     = "no_file"
	outcomeInProgress = "in_progress"
)

// Metrics holds the Prometheus collectors for upload attempts.
// A nil *Metrics records nothing.
type Metrics struct {
	attempts *prometheus.CounterVec
	failures *prometheus.CounterVec
	inFlight prometheus.Gauge
	duration prometheus.Histogram
}

// NewMetrics registers the upload collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lookalike",
			Subsystem: "upload",
			Name:      "attempts_total",
			Help:      "Submit attempts by outcome.",
		}, []string{"outcome"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lookalike",
			Subsystem: "upload",
			Name:      "failures_total",
			Help:      "Failed uploads by cause.",
		}, []string{"reason"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lookalike",
			Subsystem: "upload",
			Name:      "in_flight",
			Help:      "Uploads currently waiting on the recognition service.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lookalike",
			Subsystem: "upload",
			Name:      "duration_seconds",
			Help:      "Time from submit to response.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *Metrics) succeeded(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.attempts.WithLabelValues(outcomeSucceeded).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) failed(reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.attempts.WithLabelValues(outcomeFailed).Inc()
	m.failures.WithLabelValues(reason).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) rejected(outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
}

// failureReason classifies a failed upload for logs and metrics only.
func failureReason(err error) string {
	var statusErr *recognition.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, recognition.ErrMalformedPayload):
		return "payload"
	case errors.Is(err, errClientPanic):
		return "panic"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "network"
	}
}
