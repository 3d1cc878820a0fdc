package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pool_monitor"

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
	// OutcomeAbandoned marks a stuck refresh cycle that a later trigger replaced.
	OutcomeAbandoned = "abandoned"
)

var ( //nolint:gochecknoglobals // process-wide collectors
	PoolFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pool_fetch_total",
		Help:      "Pool stats fetches by pool and outcome.",
	}, []string{"pool", "outcome"})

	PoolFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pool_fetch_duration_seconds",
		Help:      "Pool stats fetch latency.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 4, 8, 10},
	}, []string{"pool"})

	RefreshCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_cycles_total",
		Help:      "Refresh cycles by outcome.",
	}, []string{"outcome"})

	RefreshInProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "refresh_in_progress",
		Help:      "1 while a refresh cycle is running.",
	})

	WalletsRestricted = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "wallets_restricted",
		Help:      "Wallets withheld by the entitlement policy in the last cycle.",
	})

	PriceUpdatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "price_updates_total",
		Help:      "Coin price refreshes by outcome.",
	}, []string{"outcome"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

var registerOnce sync.Once //nolint:gochecknoglobals

// MustRegister registers every collector with reg once per process.
func MustRegister(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			PoolFetchTotal,
			PoolFetchDuration,
			RefreshCyclesTotal,
			RefreshInProgress,
			WalletsRestricted,
			PriceUpdatesTotal,
			HTTPRequestsTotal,
			HTTPRequestDuration,
		)
	})
}

// ObservePoolFetch records one fetch. outcome is an entity.ErrorKind or OutcomeSuccess.
func ObservePoolFetch(pool, outcome string, took time.Duration) {
	PoolFetchTotal.WithLabelValues(pool, outcome).Inc()
	PoolFetchDuration.WithLabelValues(pool).Observe(took.Seconds())
}
