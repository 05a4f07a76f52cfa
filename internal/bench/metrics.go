package bench

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports benchmark timings as a Prometheus histogram.
type Metrics struct {
	opSeconds *prometheus.HistogramVec
}

// NewMetrics registers the benchmark histogram with reg. Registering twice
// with the same registry reuses the existing collector.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kroncalc_bench_op_seconds",
		Help:    "Mean duration of one benchmarked operation.",
		Buckets: prometheus.ExponentialBuckets(1e-9, 4, 16),
	}, []string{"op", "impl"})

	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.HistogramVec)
		if !ok {
			return nil, err
		}
		h = existing
	}
	return &Metrics{opSeconds: h}, nil
}

// Observe records one timing.
func (m *Metrics) Observe(op, impl string, seconds float64) {
	m.opSeconds.WithLabelValues(op, impl).Observe(seconds)
}
