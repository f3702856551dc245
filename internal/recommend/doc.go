// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

// Package recommend implements content-based dish similarity and recommendation.
//
// # Architecture
//
// Catalog items are vectorized into comparable attributes and scored pairwise under
// independent criteria:
//
//   - Taste: cosine of L2-normalized taste vectors, averaged with tag Jaccard
//   - Ingredient: Jaccard over main, sub and sauce ingredients
//   - Cooking: primary technique match, else time and difficulty closeness
//   - Region: origin, popular locales and traditional flag bonuses
//
// A composite score is a weighted sum of the criteria. Two weighting schemes are configured:
// the online scheme ranks live fallbacks and the offline scheme backs CompositeScores.
//
// # Read Path
//
// GetRecommendations prefers the precomputed similarFoods lists stored on the catalog record
// and falls back to a live scan of the in-memory Index when none exist. Pairwise scores are
// memoized in a bounded LRU keyed by index generation. Responses can be cached in a
// cache.Layer under "recommend:<id>:<criterion>:<topN>".
//
// Store failures and timeouts never surface as errors on the read path; the engine logs them
// and returns an empty result. Only ErrInvalidCriterion is reported to callers.
//
// # Recompute
//
// RecomputeAll rebuilds similarFoods for every item in batches, writing back only changed
// lists. Only one pass runs at a time. When it finishes the pair memo and response cache are
// cleared and the index is rebuilt.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, store, logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetResponseCache(layer)
//
//	recs := engine.GetRecommendations(ctx, "gimbap", 3)
//	result, err := engine.RecomputeAll(ctx)
package recommend
