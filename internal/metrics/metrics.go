package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prodcal_cache_hits_total",
			Help: "Total number of calendar lookups served from the cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prodcal_cache_misses_total",
			Help: "Total number of calendar lookups that missed the cache",
		},
	)

	CalendarBuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prodcal_calendar_builds_total",
			Help: "Total number of calendar builds by result",
		},
		[]string{"result"},
	)

	ProviderFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prodcal_provider_fetch_total",
			Help: "Total number of override fetches by provider and result",
		},
		[]string{"provider", "result"},
	)

	ProviderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prodcal_provider_fetch_duration_seconds",
			Help:    "Time taken to fetch overrides",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

// Result label values
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ResultLabel maps an error to a result label value
func ResultLabel(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
