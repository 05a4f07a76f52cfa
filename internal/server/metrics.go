package server

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collectors are process-wide; they are registered once with the
// default registry, alongside the Go runtime collectors it already holds.
var (
	registerOnce sync.Once

	activeRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kroncalc_active_requests",
		Help: "Number of HTTP requests being served.",
	})
	requestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kroncalc_requests_total",
		Help: "Total number of HTTP requests served.",
	})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kroncalc_request_duration_seconds",
		Help:    "HTTP request latency by path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
	symbolsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kroncalc_symbols_total",
		Help: "Kronecker symbols computed, by backend and result.",
	}, []string{"backend", "result"})
)

// Metrics exposes the server's Prometheus collectors.
type Metrics struct {
	handler http.Handler
}

// NewMetrics registers the collectors on first use and returns a handle.
func NewMetrics() *Metrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(activeRequests, requestsTotal, requestDuration, symbolsTotal)
	})
	return &Metrics{handler: promhttp.Handler()}
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() {
	activeRequests.Inc()
	requestsTotal.Inc()
}

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() {
	activeRequests.Dec()
}

// ObserveRequest records the latency of a finished request.
func (m *Metrics) ObserveRequest(path string, seconds float64) {
	requestDuration.WithLabelValues(path).Observe(seconds)
}

// ObserveSymbol counts one computed symbol.
func (m *Metrics) ObserveSymbol(backend string, result int) {
	label := "0"
	switch result {
	case 1:
		label = "1"
	case -1:
		label = "-1"
	}
	symbolsTotal.WithLabelValues(backend, label).Inc()
}

// WritePrometheus serves the metrics in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
