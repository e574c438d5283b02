// internal/monitoring/metrics.go
// Package monitoring exposes Prometheus metrics and a health endpoint for
// the scraping pipeline.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "communityscraper"

// Metrics aggregates the pipeline's Prometheus collectors. A single instance
// is shared by the fetcher, the sources and the runner.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RetriesTotal    prometheus.Counter

	ItemsScraped *prometheus.CounterVec
	ItemErrors   *prometheus.CounterVec

	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	ItemsDeleted    *prometheus.CounterVec
	LastRunItems    prometheus.Gauge
	LastRunUnixTime prometheus.Gauge
}

// NewMetrics registers the pipeline collectors on the given registry. Pass
// nil to register on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP fetches issued, by outcome.",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP fetch latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		RetriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_retries_total",
			Help:      "Fetch attempts beyond the first.",
		}),
		ItemsScraped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_scraped_total",
			Help:      "Items successfully scraped, by category.",
		}, []string{"category"}),
		ItemErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_errors_total",
			Help:      "Per-item failures recovered during scraping, by source.",
		}, []string{"source"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Orchestrator runs, by outcome.",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a full run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		ItemsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_deleted_total",
			Help:      "Items removed by retention cleanup, by category.",
		}, []string{"category"}),
		LastRunItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_items",
			Help:      "Total items handled by the most recent run.",
		}),
		LastRunUnixTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the most recent run finished.",
		}),
	}
}

// ObserveRequest records one fetch attempt.
func (m *Metrics) ObserveRequest(outcome string, d time.Duration) {
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.RequestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveRun records the outcome of a full run.
func (m *Metrics) ObserveRun(outcome string, total int, d time.Duration) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
	m.LastRunItems.Set(float64(total))
	m.LastRunUnixTime.SetToCurrentTime()
}
