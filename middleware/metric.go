package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Total Telegram updates",
		},
		[]string{"type"},
	)

	UpdateDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_update_duration_seconds",
			Help:    "Duration of update handling",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	HandlerErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_handler_errors_total",
			Help: "Handler errors and recovered panics",
		},
	)

	SheetsRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheets_requests_total",
			Help: "Google Sheets API calls",
		},
		[]string{"method"},
	)

	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sheets_cache_hits_total",
			Help: "Sheet snapshots served from cache",
		},
	)

	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sheets_cache_misses_total",
			Help: "Sheet snapshots fetched from the API",
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(UpdatesTotal, UpdateDuration, HandlerErrors,
		SheetsRequestsTotal, CacheHitsTotal, CacheMissesTotal)
}

// ObserveUpdate учитывает обработанный апдейт в счётчиках.
func ObserveUpdate(updType string, start time.Time) {
	UpdatesTotal.WithLabelValues(updType).Inc()
	UpdateDuration.WithLabelValues(updType).Observe(time.Since(start).Seconds())
}
