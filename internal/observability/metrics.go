package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	httpRequestsTotal    *prometheus.CounterVec
	httpLatencySeconds   *prometheus.HistogramVec
	httpErrorsTotal      *prometheus.CounterVec
	snapshotBuildsTotal  *prometheus.CounterVec
	snapshotBuildSeconds prometheus.Histogram
	statusLookupsTotal   prometheus.Counter
	reportCacheTotal     *prometheus.CounterVec
	remindersTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "progress_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		snapshotBuildsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_snapshot_builds_total",
			Help: "Total number of status snapshot constructions.",
		}, []string{"result"})

		snapshotBuildSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "progress_snapshot_build_seconds",
			Help:    "Duration of the two bulk loads backing a status snapshot.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		})

		statusLookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "progress_status_lookups_total",
			Help: "Total number of point status resolutions served.",
		})

		reportCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_report_cache_total",
			Help: "Course report cache lookups by result.",
		}, []string{"result"})

		remindersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "progress_reminders_total",
			Help: "Deadline reminders by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			snapshotBuildsTotal,
			snapshotBuildSeconds,
			statusLookupsTotal,
			reportCacheTotal,
			remindersTotal,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for served requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// SnapshotBuilds exposes the counter for snapshot constructions.
func SnapshotBuilds() *prometheus.CounterVec {
	RegisterMetrics()
	return snapshotBuildsTotal
}

// SnapshotBuildSeconds exposes the snapshot build duration histogram.
func SnapshotBuildSeconds() prometheus.Histogram {
	RegisterMetrics()
	return snapshotBuildSeconds
}

// StatusLookups exposes the counter for point status resolutions.
func StatusLookups() prometheus.Counter {
	RegisterMetrics()
	return statusLookupsTotal
}

// ReportCache exposes the report cache lookup counter.
func ReportCache() *prometheus.CounterVec {
	RegisterMetrics()
	return reportCacheTotal
}

// Reminders exposes the reminder outcome counter.
func Reminders() *prometheus.CounterVec {
	RegisterMetrics()
	return remindersTotal
}
