package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spatialbench_runs_total",
			Help: "Total number of benchmark runs by query, mode and outcome.",
		},
		[]string{"query", "mode", "status"},
	)

	queryDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spatialbench_query_duration_seconds",
			Help:    "Wall-clock latency of individual timed query iterations.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16),
		},
		[]string{"query", "mode"},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, queryDurationSeconds)
}

func IncRun(query, mode, status string) {
	runsTotal.WithLabelValues(query, mode, status).Inc()
}

func ObserveQueryDuration(query, mode string, elapsed time.Duration) {
	queryDurationSeconds.WithLabelValues(query, mode).Observe(elapsed.Seconds())
}
