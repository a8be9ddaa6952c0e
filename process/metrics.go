package process

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records green-cli invocation counts and latencies.
type Metrics struct {
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics creates the invocation collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "green",
			Subsystem: "cli",
			Name:      "invocations_total",
			Help:      "Number of green-cli invocations by command and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "green",
			Subsystem: "cli",
			Name:      "invocation_duration_seconds",
			Help:      "Wall time of green-cli invocations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
	}

	for _, c := range []prometheus.Collector{m.invocations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMetricsRegister, err)
		}
	}
	return m, nil
}

func (m *Metrics) observe(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.invocations.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}
