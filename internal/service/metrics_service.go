package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for HTTP traffic, the dashboard
// cache and expiry reminder runs. All methods are safe on a nil receiver.
type MetricsService struct {
	handler http.Handler

	httpLatency *prometheus.HistogramVec
	httpTotal   *prometheus.CounterVec

	cacheLookups  *prometheus.HistogramVec
	cacheWrites   prometheus.Histogram
	cacheHitRatio prometheus.Gauge

	reminderEmails   *prometheus.CounterVec
	reminderRuns     *prometheus.CounterVec
	reminderDuration prometheus.Histogram

	requests    atomic.Uint64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// NewMetricsService builds a private registry with every collector registered.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLookups: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cache_lookup_seconds",
			Help:    "Dashboard cache lookups by result",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
		cacheWrites: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency of dashboard cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Ratio of cache hits to total cache lookups",
		}),
		reminderEmails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "expiry_reminder_emails_total",
			Help: "Expiry reminder deliveries by outcome",
		}, []string{"outcome"}),
		reminderRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "expiry_reminder_runs_total",
			Help: "Expiry reminder runs by result",
		}, []string{"result"}),
		reminderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "expiry_reminder_run_seconds",
			Help:    "Duration of expiry reminder runs",
			Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
		}),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		m.httpLatency, m.httpTotal,
		m.cacheLookups, m.cacheWrites, m.cacheHitRatio,
		m.reminderEmails, m.reminderRuns, m.reminderDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "goroutines_total",
			Help: "Total number of goroutines",
		}, func() float64 { return float64(runtime.NumGoroutine()) }),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one handled request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.httpLatency.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.httpTotal.WithLabelValues(method, path, code).Inc()
	m.requests.Add(1)
}

// RecordCacheOperation records a cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
		m.cacheHits.Add(1)
	} else {
		m.cacheMisses.Add(1)
	}
	m.cacheLookups.WithLabelValues(result).Observe(duration.Seconds())

	hits, misses := m.cacheHits.Load(), m.cacheMisses.Load()
	m.cacheHitRatio.Set(float64(hits) / float64(hits+misses))
}

// ObserveCacheWrite tracks the duration of a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrites.Observe(duration.Seconds())
}

// RecordReminderEmail counts one delivery attempt by outcome (sent, failed).
func (m *MetricsService) RecordReminderEmail(outcome string) {
	if m == nil {
		return
	}
	m.reminderEmails.WithLabelValues(outcome).Inc()
}

// ObserveReminderRun records a finished reminder run.
func (m *MetricsService) ObserveReminderRun(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reminderRuns.WithLabelValues(result).Inc()
	m.reminderDuration.Observe(duration.Seconds())
}

// Totals returns request and cache counters for health reporting.
func (m *MetricsService) Totals() (requests, cacheHits, cacheMisses uint64) {
	if m == nil {
		return 0, 0, 0
	}
	return m.requests.Load(), m.cacheHits.Load(), m.cacheMisses.Load()
}
