// Package metrics exposes Prometheus collectors for the airport service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// CacheResolutions counts airport loads by the stage that served them
	// (memory, persistent, origin, sample).
	CacheResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyconnect_airport_cache_resolutions_total",
			Help: "Airport snapshot resolutions by serving stage",
		},
		[]string{"stage"},
	)

	// UpstreamRequests counts provider calls by outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyconnect_upstream_requests_total",
			Help: "Aviationstack requests by outcome",
		},
		[]string{"outcome"},
	)

	// LoadFailures counts loads that surfaced an error to callers.
	LoadFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skyconnect_airport_load_failures_total",
			Help: "Airport loads that failed without a fallback",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyconnect_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyconnect_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
