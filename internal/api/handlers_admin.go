// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

// Recompute handles POST /api/v1/admin/recompute. It runs a full pass synchronously.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.config.RecomputeTimeout)
	defer cancel()

	logging.Ctx(ctx).Info().Msg("recompute requested over HTTP")
	res, err := h.engine.RecomputeAll(ctx)
	if errors.Is(err, recommend.ErrRecomputeInProgress) || res == nil {
		writeError(rw, r, recommend.ErrRecomputeInProgress)
		return
	}

	body := RecomputeResponse{
		Success:      res.Success,
		UpdatedCount: res.UpdatedCount,
		Processed:    res.Processed,
		Failed:       res.Failed,
		DurationMs:   res.Duration.Milliseconds(),
	}
	if err != nil {
		body.Message = "similarity recompute failed: " + res.Error
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, body.Message, body)
		return
	}
	body.Message = fmt.Sprintf("similar foods updated for %d dishes", res.UpdatedCount)
	rw.Success(body)
}

// InvalidateCache handles POST /api/v1/admin/cache/invalidate. A pattern ending in "*" removes
// every key with that prefix.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CacheInvalidateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(rw, r, err)
		return
	}

	ok := h.cache.Invalidate(r.Context(), req.Pattern)
	logging.Ctx(r.Context()).Info().
		Str("pattern", req.Pattern).
		Bool("invalidated", ok).
		Msg("cache invalidation requested")

	rw.Success(CacheInvalidateResponse{
		Pattern:     req.Pattern,
		Backend:     h.cache.Backend(),
		Invalidated: ok,
	})
}
