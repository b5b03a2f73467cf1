package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Leaderboard cache metrics
	LeaderboardReadsTotal *prometheus.CounterVec // result: cache_hit, cache_miss
	CacheInvalidations    *prometheus.CounterVec // status: ok, error

	// Datastore metrics
	DatastoreQueriesTotal  *prometheus.CounterVec
	DatastoreQueryDuration *prometheus.HistogramVec

	// Tracking metrics
	TrackRequestsTotal *prometheus.CounterVec // result: success, invalid_input, store_error
	GeoLookupsTotal    *prometheus.CounterVec // result: resolved, unresolved
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		LeaderboardReadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_reads_total",
				Help: "Total number of leaderboard reads by result",
			},
			[]string{"result"},
		),

		CacheInvalidations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leaderboard_cache_invalidations_total",
				Help: "Total number of cache invalidations after writes",
			},
			[]string{"status"},
		),

		DatastoreQueriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "datastore_queries_total",
				Help: "Total number of datastore queries",
			},
			[]string{"operation", "status"},
		),

		DatastoreQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "datastore_query_duration_seconds",
				Help:    "Datastore query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		TrackRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "track_requests_total",
				Help: "Total number of IP tracking requests by result",
			},
			[]string{"result"},
		),

		GeoLookupsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geo_lookups_total",
				Help: "Total number of geolocation lookups by result",
			},
			[]string{"result"},
		),
	}
}
