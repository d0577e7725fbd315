// internal/monitoring/metrics.go
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsManager manages Prometheus metrics for a retrieval run.
type MetricsManager struct {
	registry *prometheus.Registry

	// Source metrics
	sourceRequests    *prometheus.CounterVec
	candidatesFound   *prometheus.CounterVec
	candidatesDropped *prometheus.CounterVec

	// Retrieval metrics
	retrievalsTotal   *prometheus.CounterVec
	retrievalDuration *prometheus.HistogramVec
	bytesDownloaded   prometheus.Counter
	rateLimitWaits    prometheus.Histogram

	// Persistence metrics
	persistSuccess *prometheus.CounterVec
	persistErrors  *prometheus.CounterVec

	// Run metrics
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
	itemsActive prometheus.Gauge
}

// MetricsConfig configuration for metrics
type MetricsConfig struct {
	Namespace string `json:"namespace"`
	Subsystem string `json:"subsystem"`
}

// NewMetricsManager creates a new metrics manager with its own registry.
func NewMetricsManager(config MetricsConfig) *MetricsManager {
	if config.Namespace == "" {
		config.Namespace = "mediascrapexter"
	}
	if config.Subsystem == "" {
		config.Subsystem = "run"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	mm := &MetricsManager{registry: registry}

	mm.sourceRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "source_requests_total",
			Help:      "Total number of source fetches (pages and API listings)",
		},
		[]string{"source_type", "status"},
	)

	mm.candidatesFound = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "candidates_found_total",
			Help:      "Total number of media candidates extracted",
		},
		[]string{"kind"},
	)

	mm.candidatesDropped = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "candidates_dropped_total",
			Help:      "Total number of candidates dropped before retrieval",
		},
		[]string{"reason"},
	)

	mm.retrievalsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "retrievals_total",
			Help:      "Total number of media retrievals by outcome",
		},
		[]string{"kind", "status", "status_code"},
	)

	mm.retrievalDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "retrieval_duration_seconds",
			Help:      "Media retrieval duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0},
		},
		[]string{"kind"},
	)

	mm.bytesDownloaded = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "bytes_downloaded_total",
			Help:      "Total bytes downloaded",
		},
	)

	mm.rateLimitWaits = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "rate_limit_wait_duration_seconds",
			Help:      "Time spent waiting on the request pacer",
			Buckets:   []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
	)

	mm.persistSuccess = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "persist_success_total",
			Help:      "Total number of files persisted",
		},
		[]string{"mode"},
	)

	mm.persistErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "persist_errors_total",
			Help:      "Total number of persistence failures",
		},
		[]string{"mode"},
	)

	mm.runsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "runs_total",
			Help:      "Total number of runs by final status",
		},
		[]string{"status"},
	)

	mm.runDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "run_duration_seconds",
			Help:      "Run duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
		},
	)

	mm.itemsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "items_active",
			Help:      "Number of items currently being retrieved",
		},
	)

	return mm
}

// Registry returns the metrics registry for serving.
func (mm *MetricsManager) Registry() *prometheus.Registry {
	return mm.registry
}

func (mm *MetricsManager) RecordSourceRequest(sourceType, status string) {
	mm.sourceRequests.WithLabelValues(sourceType, status).Inc()
}

func (mm *MetricsManager) RecordCandidateFound(kind string) {
	mm.candidatesFound.WithLabelValues(kind).Inc()
}

func (mm *MetricsManager) RecordCandidateDropped(reason string) {
	mm.candidatesDropped.WithLabelValues(reason).Inc()
}

func (mm *MetricsManager) RecordRetrieval(kind, status string, statusCode int, duration time.Duration, bytes int64) {
	mm.retrievalsTotal.WithLabelValues(kind, status, strconv.Itoa(statusCode)).Inc()
	mm.retrievalDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if bytes > 0 {
		mm.bytesDownloaded.Add(float64(bytes))
	}
}

func (mm *MetricsManager) RecordRateLimitWait(duration time.Duration) {
	mm.rateLimitWaits.Observe(duration.Seconds())
}

func (mm *MetricsManager) RecordPersistSuccess(mode string) {
	mm.persistSuccess.WithLabelValues(mode).Inc()
}

func (mm *MetricsManager) RecordPersistError(mode string) {
	mm.persistErrors.WithLabelValues(mode).Inc()
}

func (mm *MetricsManager) IncItemsActive() {
	mm.itemsActive.Inc()
}

func (mm *MetricsManager) DecItemsActive() {
	mm.itemsActive.Dec()
}

func (mm *MetricsManager) RecordRunComplete(status string, duration time.Duration) {
	mm.runsTotal.WithLabelValues(status).Inc()
	mm.runDuration.Observe(duration.Seconds())
}
