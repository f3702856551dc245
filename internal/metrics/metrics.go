// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation engine metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_recommend_requests_total",
			Help: "Total number of recommendation requests by operation and result source",
		},
		[]string{"operation", "source"}, // source: "precomputed", "live", "cache", "empty"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kfoodlens_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"operation"},
	)

	MemoLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_similarity_memo_lookups_total",
			Help: "Total number of pair similarity memo lookups",
		},
		[]string{"criterion", "result"}, // result: "hit", "miss"
	)

	MemoEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kfoodlens_similarity_memo_entries",
			Help: "Current number of memoized pair similarities",
		},
	)

	IndexItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kfoodlens_index_items",
			Help: "Number of catalog items in the current in-memory index",
		},
	)

	IndexRebuilds = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kfoodlens_index_rebuilds_total",
			Help: "Total number of in-memory index builds",
		},
	)

	// Recompute job metrics
	RecomputeRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_recompute_runs_total",
			Help: "Total number of similarity recompute passes by result",
		},
		[]string{"result"}, // "success", "failure", "skipped"
	)

	RecomputeUpdatedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kfoodlens_recompute_updated_items_total",
			Help: "Total number of catalog items whose similarFoods changed",
		},
	)

	RecomputeFailedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kfoodlens_recompute_failed_items_total",
			Help: "Total number of catalog items skipped because of per-item failures",
		},
	)

	RecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kfoodlens_recompute_duration_seconds",
			Help:    "Duration of full similarity recompute passes",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 300, 900},
		},
	)

	RecomputeLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kfoodlens_recompute_last_success_timestamp",
			Help: "Unix timestamp of the last successful recompute pass",
		},
	)

	// Generic cache layer metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_cache_lookups_total",
			Help: "Total number of generic cache lookups",
		},
		[]string{"backend", "result"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_cache_errors_total",
			Help: "Total number of cache backend failures",
		},
		[]string{"backend", "operation"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_cache_invalidations_total",
			Help: "Total number of cache invalidations",
		},
		[]string{"backend", "kind"}, // kind: "exact", "prefix"
	)

	// Catalog store metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kfoodlens_store_operation_duration_seconds",
			Help:    "Duration of catalog store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kfoodlens_store_errors_total",
			Help: "Total number of catalog store errors",
		},
		[]string{"backend", "operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// RecordRecommendRequest records a recommendation request and where its result came from.
func RecordRecommendRequest(operation, source string, duration time.Duration) {
	RecommendRequests.WithLabelValues(operation, source).Inc()
	RecommendDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMemoLookup records a pair memo hit or miss.
func RecordMemoLookup(criterion string, hit bool) {
	MemoLookups.WithLabelValues(criterion, hitLabel(hit)).Inc()
}

// RecordIndexBuild records a completed index build.
func RecordIndexBuild(items int) {
	IndexRebuilds.Inc()
	IndexItems.Set(float64(items))
}

// RecordRecompute records the outcome of a recompute pass.
func RecordRecompute(success bool, updated, failed int, duration time.Duration) {
	RecomputeDuration.Observe(duration.Seconds())
	RecomputeUpdatedItems.Add(float64(updated))
	RecomputeFailedItems.Add(float64(failed))

	if !success {
		RecomputeRuns.WithLabelValues("failure").Inc()
		return
	}
	RecomputeRuns.WithLabelValues("success").Inc()
	RecomputeLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordRecomputeSkipped records a recompute request rejected because another pass was running.
func RecordRecomputeSkipped() {
	RecomputeRuns.WithLabelValues("skipped").Inc()
}

// RecordCacheLookup records a generic cache hit or miss.
func RecordCacheLookup(backend string, hit bool) {
	CacheLookups.WithLabelValues(backend, hitLabel(hit)).Inc()
}

// RecordCacheError records a cache backend failure.
func RecordCacheError(backend, operation string) {
	CacheErrors.WithLabelValues(backend, operation).Inc()
}

// RecordCacheInvalidation records an exact or prefix invalidation.
func RecordCacheInvalidation(backend string, prefix bool) {
	kind := "exact"
	if prefix {
		kind = "prefix"
	}
	CacheInvalidations.WithLabelValues(backend, kind).Inc()
}

// RecordStoreOperation records a catalog store call.
func RecordStoreOperation(backend, operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func hitLabel(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
