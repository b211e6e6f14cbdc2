package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Index metrics
	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meal_index_build_duration_seconds",
			Help:    "Duration of a full corpus load and inverted index build",
			Buckets: prometheus.DefBuckets,
		},
	)

	IndexBuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meal_index_build_errors_total",
			Help: "Total number of corpus loads that failed and left the previous index in place",
		},
	)

	IndexSkippedTokens = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meal_index_skipped_tokens_total",
			Help: "Total number of meal ingredient tokens that did not resolve against the catalog",
		},
	)

	IndexVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meal_index_version",
			Help: "Version of the currently published index snapshot",
		},
	)

	IndexSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "meal_index_size",
			Help: "Size of the published index snapshot",
		},
		[]string{"dimension"}, // "ingredients", "meals", "postings"
	)

	// Recommendation metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of ranking passes by outcome",
		},
		[]string{"outcome"}, // "ok", "invalid_input", "not_ready"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of a single ranking pass",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of meals returned per ranking pass",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
	)

	// Cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_errors_total",
			Help: "Total number of recommendation cache errors",
		},
		[]string{"operation"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordIndex publishes the size of a freshly swapped snapshot.
func RecordIndex(version int64, ingredients, meals, postings, skipped int, took time.Duration) {
	IndexBuildDuration.Observe(took.Seconds())
	IndexVersion.Set(float64(version))
	IndexSize.WithLabelValues("ingredients").Set(float64(ingredients))
	IndexSize.WithLabelValues("meals").Set(float64(meals))
	IndexSize.WithLabelValues("postings").Set(float64(postings))
	IndexSkippedTokens.Add(float64(skipped))
}

func RecordAPIRequest(method, route string, status int, took time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}
