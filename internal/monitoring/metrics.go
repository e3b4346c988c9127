// internal/monitoring/metrics.go

// Package monitoring exposes Prometheus metrics for the scrape pipeline.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reviewlens/reviewlens/internal/scraper"
)

const namespace = "reviewlens"

// Metrics holds every collector for the pipeline. It implements
// scraper.Observer so the fetch layer reports through it without importing
// this package.
type Metrics struct {
	registry *prometheus.Registry

	fetchAttempts *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	reviewsExtracted *prometheus.CounterVec
	reviewsDropped   prometheus.Counter

	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
	jobsActive  prometheus.Gauge

	recordsWritten *prometheus.CounterVec
	outputErrors   *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry, so tests can
// build as many instances as they like without duplicate registration.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		fetchAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Fetch attempts per backend.",
		}, []string{"backend"}),
		fetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Fetch failures per backend and failure kind.",
		}, []string{"backend", "kind"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of successful fetches per backend.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"backend"}),

		reviewsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_extracted_total",
			Help:      "Reviews extracted per strategy.",
		}, []string{"strategy"}),
		reviewsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_dropped_total",
			Help:      "Raw records dropped as duplicates or empty.",
		}),

		jobsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Scrape jobs by outcome.",
		}, []string{"status"}),
		jobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "End-to-end duration of scrape jobs.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		jobsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Scrape jobs currently running.",
		}),

		recordsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Review records written per output destination.",
		}, []string{"output"}),
		outputErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "output_errors_total",
			Help:      "Write failures per output destination.",
		}, []string{"output"}),
	}
}

// Handler serves this instance's metrics in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FetchAttempt implements scraper.Observer.
func (m *Metrics) FetchAttempt(backend string) {
	m.fetchAttempts.WithLabelValues(backend).Inc()
}

// FetchSuccess implements scraper.Observer.
func (m *Metrics) FetchSuccess(backend string, duration time.Duration) {
	m.fetchDuration.WithLabelValues(backend).Observe(duration.Seconds())
}

// FetchFailure implements scraper.Observer.
func (m *Metrics) FetchFailure(backend string, kind scraper.ErrorKind) {
	m.fetchFailures.WithLabelValues(backend, string(kind)).Inc()
}

// ReviewsExtracted records extraction output per strategy.
func (m *Metrics) ReviewsExtracted(strategy string, count int) {
	m.reviewsExtracted.WithLabelValues(strategy).Add(float64(count))
}

// ReviewsDropped records raw records lost to dedup or the no-content rule.
func (m *Metrics) ReviewsDropped(count int) {
	m.reviewsDropped.Add(float64(count))
}

// JobStarted marks a scrape job in flight.
func (m *Metrics) JobStarted() {
	m.jobsActive.Inc()
}

// JobFinished records a job's outcome and duration.
func (m *Metrics) JobFinished(status string, duration time.Duration) {
	m.jobsActive.Dec()
	m.jobsTotal.WithLabelValues(status).Inc()
	m.jobDuration.Observe(duration.Seconds())
}

// RecordsWritten reports a successful output write.
func (m *Metrics) RecordsWritten(output string, count int) {
	m.recordsWritten.WithLabelValues(output).Add(float64(count))
}

// OutputError reports a failed output write.
func (m *Metrics) OutputError(output string) {
	m.outputErrors.WithLabelValues(output).Inc()
}
