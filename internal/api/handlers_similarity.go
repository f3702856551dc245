// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

// similaritiesCacheMethod shares the engine's response prefix so a recompute also drops
// cached batch scores.
const similaritiesCacheMethod = recommend.ResponseCachePrefix + "similarities"

// similaritiesCacheKey scopes a cached batch response to the index generation it was
// computed from.
type similaritiesCacheKey struct {
	Generation uint64                 `json:"generation"`
	Request    BatchSimilarityRequest `json:"request"`
}

// errNoScores keeps empty batch results out of the cache.
var errNoScores = errors.New("no similarity scores")

// BatchSimilarities handles POST /api/v1/similarities/batch.
func (h *Handler) BatchSimilarities(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req BatchSimilarityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(rw, r, err)
		return
	}
	c, err := recommend.ParseBatchCriterion(req.Criterion)
	if req.Criterion == "" {
		c, err = recommend.CriterionComposite, nil
	}
	if err != nil {
		writeError(rw, r, err)
		return
	}
	req.Criterion = c.String()

	compute := func(ctx context.Context) (map[string]float64, error) {
		scores, err := h.engine.ComputeBatchSimilarities(ctx, req.TargetID, req.CandidateIDs, req.Criterion)
		if err != nil {
			return nil, err
		}
		if len(scores) == 0 {
			return scores, errNoScores
		}
		return scores, nil
	}

	var scores map[string]float64
	if rc := h.engine.Config().ResponseCache; rc.Enabled {
		scores, err = cache.Remember(r.Context(), h.cache, cache.GenerateKey(similaritiesCacheMethod, similaritiesCacheKey{
			Generation: h.engine.Stats().IndexGeneration,
			Request:    req,
		}), rc.TTL, compute)
	} else {
		scores, err = compute(r.Context())
	}
	switch {
	case errors.Is(err, errNoScores):
		scores = map[string]float64{}
	case err != nil:
		writeError(rw, r, err)
		return
	}

	rw.Success(BatchSimilarityResponse{
		TargetID:     req.TargetID,
		Criterion:    req.Criterion,
		Similarities: scores,
	})
}
