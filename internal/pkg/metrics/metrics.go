// internal/pkg/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	RequestCount    *prometheus.CounterVec
	ActiveRequests  prometheus.Gauge

	ShoppingListDownloads *prometheus.CounterVec
	ShoppingListLines     prometheus.Histogram
}

// New creates the collectors on a dedicated registry
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		ActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_active_requests",
				Help:      "Number of in-flight HTTP requests",
			},
		),
		ShoppingListDownloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shopping_list_downloads_total",
				Help:      "Shopping lists rendered, by output format",
			},
			[]string{"format"},
		),
		ShoppingListLines: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "shopping_list_lines",
				Help:      "Number of aggregated ingredient lines per shopping list",
				Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
			},
		),
	}

	registry.MustRegister(
		m.RequestDuration,
		m.RequestCount,
		m.ActiveRequests,
		m.ShoppingListDownloads,
		m.ShoppingListLines,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveShoppingList records one rendered shopping list
func (m *Metrics) ObserveShoppingList(format string, lines int) {
	m.ShoppingListDownloads.WithLabelValues(format).Inc()
	m.ShoppingListLines.Observe(float64(lines))
}
