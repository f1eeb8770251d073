package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for executions.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeTransport  = "transport"
)

type Metrics struct {
	registry          *prometheus.Registry
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		ExecutionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apidesk",
			Name:      "executions_total",
			Help:      "Total executed requests by method and outcome",
		}, []string{"method", "outcome"}),
		ExecutionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apidesk",
			Name:      "execution_duration_seconds",
			Help:      "Round-trip time of successful executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	r.MustRegister(m.ExecutionsTotal, m.ExecutionDuration)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Observe records one execution. elapsed is only recorded for OutcomeOK.
func (m *Metrics) Observe(method, outcome string, elapsed time.Duration) {
	m.ExecutionsTotal.WithLabelValues(method, outcome).Inc()
	if outcome == OutcomeOK {
		m.ExecutionDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	}
}
