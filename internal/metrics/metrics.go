package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bookfinder"

// Metrics bundles Prometheus collectors for the API.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	UpstreamRequests     *prometheus.CounterVec
	UpstreamDuration     *prometheus.HistogramVec
	UpstreamErrors       *prometheus.CounterVec
	SearchCacheHits      prometheus.Counter
	AuthorFanoutDegraded prometheus.Counter
	HistoryWriteFailures prometheus.Counter
}

// New constructs and registers all collectors on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served by route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests served by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total requests issued to the catalog API by endpoint.",
		}, []string{"endpoint"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of catalog API requests by endpoint.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
		}, []string{"endpoint"}),
		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Catalog API failures by endpoint and error type.",
		}, []string{"endpoint", "error_type"}),
		SearchCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_cache_hits_total",
			Help:      "Search responses served from the in-process cache.",
		}),
		AuthorFanoutDegraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "author_fanout_degraded_total",
			Help:      "Detail requests whose author enrichment degraded to an empty list.",
		}),
		HistoryWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_write_failures_total",
			Help:      "Search history entries that could not be recorded.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.UpstreamErrors,
		m.SearchCacheHits,
		m.AuthorFanoutDegraded,
		m.HistoryWriteFailures,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveUpstream records one catalog API request and its latency.
func (m *Metrics) ObserveUpstream(endpoint string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// IncUpstreamError increments the failure counter for an endpoint and error type.
func (m *Metrics) IncUpstreamError(endpoint, errorType string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(endpoint, errorType).Inc()
}

func (m *Metrics) IncSearchCacheHit() {
	if m == nil {
		return
	}
	m.SearchCacheHits.Inc()
}

func (m *Metrics) IncAuthorFanoutDegraded() {
	if m == nil {
		return
	}
	m.AuthorFanoutDegraded.Inc()
}

func (m *Metrics) IncHistoryWriteFailure() {
	if m == nil {
		return
	}
	m.HistoryWriteFailures.Inc()
}
