// Package metrics 定義 Prometheus 指標，於 /metrics 輸出。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 指標
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// 搜尋指標
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_searches_total",
			Help: "Total number of searches by scoring pass",
		},
		[]string{"pass"}, // listing, primary, fallback, none
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_search_duration_seconds",
			Help:    "Time spent ranking a search query",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipe_search_results",
			Help:    "Number of results returned by the ranker",
			Buckets: []float64{0, 1, 5, 10, 20, 30, 40, 50},
		},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_recommendations_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"source"}, // default, history
	)

	HistorySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_query_history_size",
			Help: "Number of queries recorded in the history",
		},
	)

	// 索引指標
	IndexRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_index_recipes",
			Help: "Number of recipes in the index",
		},
	)

	IndexUnmatchable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recipe_index_unmatchable_recipes",
			Help: "Number of indexed recipes without parsed ingredients",
		},
	)

	// 快取指標
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_hits_total",
			Help: "Total number of result cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_misses_total",
			Help: "Total number of result cache misses",
		},
		[]string{"cache_type"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_cache_errors_total",
			Help: "Total number of result cache errors",
		},
		[]string{"cache_type", "operation"},
	)
)
