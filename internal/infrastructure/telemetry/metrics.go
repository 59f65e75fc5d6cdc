// Package telemetry exposes Prometheus metrics for the finance service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a dedicated registry
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	RefundsProcessed    *prometheus.CounterVec
	ReportsGenerated    *prometheus.CounterVec
}

// NewMetrics creates the registry and registers all collectors.
// Cache hit and miss gauges read live from the report cache on scrape.
func NewMetrics(serviceName string, reportCache *cache.ReadThroughCache) *Metrics {
	registry := prometheus.NewRegistry()
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests by method, path and status",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency by method and path",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		RefundsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "refunds_processed_total",
			Help:        "Refund workflow outcomes by final status",
			ConstLabels: labels,
		}, []string{"status"}),
		ReportsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reports_generated_total",
			Help:        "Financial reports generated by type",
			ConstLabels: labels,
		}, []string{"type"}),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.RefundsProcessed,
		m.ReportsGenerated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "report_cache_hits_total",
		Help:        "Report cache hits since process start",
		ConstLabels: labels,
	}, func() float64 { return float64(reportCache.Stats().Hits) }))
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "report_cache_misses_total",
		Help:        "Report cache misses since process start",
		ConstLabels: labels,
	}, func() float64 { return float64(reportCache.Stats().Misses) }))
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "report_cache_hit_rate_percent",
		Help:        "Report cache hit rate percentage",
		ConstLabels: labels,
	}, func() float64 { return reportCache.Stats().HitRate }))

	start := time.Now()
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name:        "uptime_seconds",
		Help:        "Seconds since process start",
		ConstLabels: labels,
	}, func() float64 { return time.Since(start).Seconds() }))

	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
