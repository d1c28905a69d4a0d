package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticket_reserve"

// Metrics bundles the service's prometheus collectors.
type Metrics struct {
	Requests           *prometheus.CounterVec
	LatencyMS          *prometheus.HistogramVec
	HoldsRejected      prometheus.Counter
	ReservationsReaped prometheus.Counter

	registry *prometheus.Registry
}

func New() *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method", "path"})
	holdsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "holds_rejected_total",
		Help:      "Hold requests rejected for insufficient capacity.",
	})
	reaped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_reaped_total",
		Help:      "Expired reservations removed by the reaper.",
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(requests, latency, holdsRejected, reaped)

	return &Metrics{
		Requests:           requests,
		LatencyMS:          latency,
		HoldsRejected:      holdsRejected,
		ReservationsReaped: reaped,
		registry:           registry,
	}
}

// Handler serves the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
