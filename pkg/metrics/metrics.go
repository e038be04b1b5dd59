// Package metrics provides Prometheus metrics for downloads and launches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hzlauncher_fetches_total",
			Help: "Total number of HTTP fetches by outcome",
		},
		[]string{"status"},
	)

	fetchBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hzlauncher_fetch_bytes_total",
			Help: "Total bytes received from fetches",
		},
	)

	fetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hzlauncher_fetch_duration_seconds",
			Help:    "Duration of a single fetch in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	artifactsStaged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hzlauncher_artifacts_staged_total",
			Help: "Artifacts written to the local cache by kind",
		},
		[]string{"kind"},
	)

	launchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hzlauncher_launches_total",
			Help: "Game process launches by outcome",
		},
		[]string{"outcome"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordFetch(bytes int64, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	fetchesTotal.WithLabelValues(status).Inc()
	fetchBytes.Add(float64(bytes))
	fetchDuration.Observe(duration.Seconds())
}

// RecordStaged counts n artifacts of kind ("library", "client", "asset") written to disk.
func RecordStaged(kind string, n int) {
	artifactsStaged.WithLabelValues(kind).Add(float64(n))
}

// RecordLaunch counts a launch; outcome is "exited", "failed" or "spawn_error".
func RecordLaunch(outcome string) {
	launchesTotal.WithLabelValues(outcome).Inc()
}
