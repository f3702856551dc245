// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package metrics provides Prometheus instrumentation for the recommendation service.

All collectors are registered with the default registry through promauto and are
exported at /metrics in the Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation engine:
  - kfoodlens_recommend_requests_total: requests by operation and result source
    (precomputed, live, cache, empty)
  - kfoodlens_recommend_duration_seconds: request latency by operation
  - kfoodlens_similarity_memo_lookups_total: pair memo lookups by criterion and result
  - kfoodlens_similarity_memo_entries: current pair memo size
  - kfoodlens_index_items / kfoodlens_index_rebuilds_total: in-memory index state
  - kfoodlens_recompute_runs_total, kfoodlens_recompute_updated_items_total,
    kfoodlens_recompute_failed_items_total, kfoodlens_recompute_duration_seconds,
    kfoodlens_recompute_last_success_timestamp

Generic cache layer:
  - kfoodlens_cache_lookups_total: lookups by backend and result (hit, miss)
  - kfoodlens_cache_errors_total: backend failures by backend and operation
  - kfoodlens_cache_invalidations_total: invalidations by backend and kind (exact, prefix)

Catalog store:
  - kfoodlens_store_operation_duration_seconds, kfoodlens_store_errors_total

Circuit breaker:
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_consecutive_failures, circuit_breaker_state_transitions_total

HTTP API:
  - http_requests_total, http_request_duration_seconds, http_requests_in_flight
*/
package metrics
