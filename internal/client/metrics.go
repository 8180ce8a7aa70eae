package client

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client's Prometheus collectors.
type Metrics struct {
	// requests counts submissions by outcome.
	// Labels: status (HTTP status code, or "error" for transport failures)
	requests *prometheus.CounterVec

	// duration measures round-trip latency in seconds.
	duration prometheus.Histogram
}

// NewMetrics registers the client collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer; build at most one Metrics per registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "woql",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total WOQL query submissions by response status",
		}, []string{"status"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "woql",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "WOQL query round-trip latency in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// sharedMetrics registers collectors on the default registerer on first use.
func sharedMetrics() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(nil)
	})
	return defaultMetrics
}
