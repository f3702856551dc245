// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package cache provides the service-wide caching primitives.

# Generic cache layer

Layer is a key/value cache for arbitrary JSON-serializable results with per-key TTL and prefix
invalidation. It sits on a pluggable Backend:

  - MemoryBackend: in-process map with lazy expiration and a periodic sweep
  - RedisBackend: go-redis client; prefix invalidation uses SCAN + DEL
  - BadgerBackend: embedded BadgerDB with native entry TTL and DropPrefix

Layer never surfaces backend failures. Get degrades to a miss, Set and Invalidate log the error
and return false, so callers can always fall back to computing the value:

	layer := cache.NewLayer(cache.NewMemoryBackend(time.Minute), 10*time.Minute, logger)

	recs, err := cache.Remember(ctx, layer, "recommend:0:all:3", 0, func(ctx context.Context) ([]Rec, error) {
	    return engine.compute(ctx)
	})

	layer.Invalidate(ctx, "recommend:*") // every key starting with "recommend:"
	layer.Invalidate(ctx, "recommend:0:all:3") // exactly one key

Remember coalesces concurrent misses for one key with singleflight and never caches errors.

# LRU

LRU is a generic bounded least-recently-used map with O(1) operations. The
recommendation engine uses it for pairwise similarity memoization.

# Thread Safety

Every type in this package is safe for concurrent use.
*/
package cache
