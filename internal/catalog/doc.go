// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package catalog holds the dish catalog model and the persistent store contract used by the
recommendation engine.

A catalog item is one dish with a taste profile, categorized ingredients, a cooking method and a
region profile. Items may carry a materialized similarFoods field: per-criterion neighbour lists
written back by the recompute job and read directly on the recommendation fast path.

# Stores

Three Store implementations are provided:

  - MemoryStore: map-backed, used for tests and small demo catalogs
  - BadgerStore: embedded BadgerDB, one JSON record per dish under "dish:<id>"
  - MongoStore: the document store the catalog originally lived in ("foods" collection)

BreakerStore wraps any Store with a gobreaker circuit breaker so that an unreachable backend
fails fast with ErrUnavailable instead of stacking timeouts on the request path.

# Errors

FindOne returns ErrNotFound for unknown ids. Connectivity problems, context cancellation and
deadlines are reported as ErrUnavailable so callers can degrade without inspecting
driver-specific errors:

	item, err := store.FindOne(ctx, id)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		// empty result
	case errors.Is(err, catalog.ErrUnavailable):
		// log and degrade
	}
*/
package catalog
