// Package metrics provides Prometheus metrics for the catalog agent.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storcat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storcat_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Catalog creation metrics
	CatalogsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storcat_catalogs_created_total",
			Help: "Total number of catalog creations by outcome",
		},
		[]string{"status"},
	)

	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "storcat_build_duration_seconds",
			Help:    "Time to walk a root directory and build its tree",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
	)

	EntriesVisited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storcat_entries_visited_total",
			Help: "Total number of files and directories visited while building catalogs",
		},
	)

	// Warnings counts skipped entries and documents by operation
	Warnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storcat_warnings_total",
			Help: "Total number of entries or documents skipped because they could not be read",
		},
		[]string{"operation"},
	)

	// Search metrics
	Searches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storcat_searches_total",
			Help: "Total number of catalog searches",
		},
	)

	SearchResults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storcat_search_results_total",
			Help: "Total number of search results returned",
		},
	)
)

// RecordHTTPRequest records a completed HTTP request.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBuild records a finished tree build.
func RecordBuild(visited int, warnings int, duration time.Duration) {
	buildDuration.Observe(duration.Seconds())
	EntriesVisited.Add(float64(visited))
	Warnings.WithLabelValues("build").Add(float64(warnings))
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
