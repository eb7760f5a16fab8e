// Package metrics provides the centralized Prometheus metrics registry for
// the signals service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_signals",
		Name:      "refreshes_total",
		Help:      "Total number of refresh cycles started",
	})
	RefreshFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_signals",
		Name:      "refresh_failures_total",
		Help:      "Total number of refresh cycles that failed at the row source",
	})
	RowsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bet_signals",
		Name:      "rows_dropped_total",
		Help:      "Total number of rows dropped during normalization",
	})
	AlertsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bet_signals",
		Name:      "alerts_sent_total",
		Help:      "Total number of upcoming-match alerts emitted per sink",
	}, []string{"sink"})
	AlertFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bet_signals",
		Name:      "alert_failures_total",
		Help:      "Total number of alert deliveries that failed per sink",
	}, []string{"sink"})
)

// Gauge metrics
var (
	RowsFetched = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_signals",
		Name:      "rows_fetched",
		Help:      "Number of raw rows returned by the last successful fetch",
	})
	DataStale = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_signals",
		Name:      "data_stale",
		Help:      "1 when the served views are older than the last refresh attempt",
	})
	LastRefreshTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_signals",
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last successful refresh",
	})
	PendingMatches = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bet_signals",
		Name:      "pending_matches",
		Help:      "Number of pending matches currently tracked by the watcher",
	})
)

// Histogram metrics
var (
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bet_signals",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of full refresh cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RefreshesTotal)
		registry.MustRegister(RefreshFailuresTotal)
		registry.MustRegister(RowsDroppedTotal)
		registry.MustRegister(AlertsSentTotal)
		registry.MustRegister(AlertFailuresTotal)

		registry.MustRegister(RowsFetched)
		registry.MustRegister(DataStale)
		registry.MustRegister(LastRefreshTimestamp)
		registry.MustRegister(PendingMatches)

		registry.MustRegister(RefreshDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
