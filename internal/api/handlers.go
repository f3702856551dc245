// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
	"github.com/Elijahuni/K-FOOD-LENS/internal/validation"
)

// Recommender is the part of *recommend.Engine the handlers use.
type Recommender interface {
	GetRecommendations(ctx context.Context, id string, topN int) []recommend.Recommendation
	GetRecommendationsByCriteria(ctx context.Context, id, criterion string, topN int) ([]recommend.Recommendation, error)
	ComputeBatchSimilarities(ctx context.Context, targetID string, candidateIDs []string, criterion string) (map[string]float64, error)
	RecomputeAll(ctx context.Context) (*recommend.RecomputeResult, error)
	Stats() recommend.Stats
	Config() *recommend.Config
}

// HandlerConfig holds handler settings that do not belong to the engine.
type HandlerConfig struct {
	// RecomputeTimeout bounds a recompute started over HTTP. The pass is detached from the
	// request so a disconnecting client does not abort it.
	RecomputeTimeout time.Duration

	// Version is reported by /health.
	Version string
}

// Handler serves the dish, similarity, admin and health endpoints.
type Handler struct {
	engine    Recommender
	store     catalog.Store
	cache     *cache.Layer
	config    HandlerConfig
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates a Handler. responseCache may be nil.
func NewHandler(engine Recommender, store catalog.Store, responseCache *cache.Layer, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.RecomputeTimeout <= 0 {
		cfg.RecomputeTimeout = 10 * time.Minute
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		engine:    engine,
		store:     store,
		cache:     responseCache,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// dishIDParam returns the unescaped {id} path parameter. ok is false after an error response
// has been written.
func dishIDParam(rw *ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := url.PathUnescape(raw)
	if err != nil || !validation.ValidDishID(id) {
		writeFieldError(rw, "id", "id must be a dish id without spaces")
		return "", false
	}
	return id, true
}

// GetDish handles GET /api/v1/dishes/{id}.
func (h *Handler) GetDish(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := dishIDParam(rw, r)
	if !ok {
		return
	}

	item, err := h.store.FindOne(r.Context(), id)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	rw.Success(item)
}

// GetRecommendations handles GET /api/v1/dishes/{id}/recommendations. An unknown dish yields
// an empty list, not a 404.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := dishIDParam(rw, r)
	if !ok {
		return
	}
	topN, msg := parseTopN(r, h.engine.Config().Limits)
	if msg != "" {
		writeFieldError(rw, "top_n", msg)
		return
	}

	recs := h.engine.GetRecommendations(r.Context(), id, topN)
	rw.Success(RecommendationsResponse{
		DishID:          id,
		TopN:            topN,
		Recommendations: nonNil(recs),
	})
}

// GetRecommendationsByCriterion handles GET /api/v1/dishes/{id}/recommendations/{criterion}.
func (h *Handler) GetRecommendationsByCriterion(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, ok := dishIDParam(rw, r)
	if !ok {
		return
	}
	c, err := recommend.ParseCriterion(chi.URLParam(r, "criterion"))
	if err != nil {
		writeError(rw, r, err)
		return
	}
	topN, msg := parseTopN(r, h.engine.Config().Limits)
	if msg != "" {
		writeFieldError(rw, "top_n", msg)
		return
	}

	recs, err := h.engine.GetRecommendationsByCriteria(r.Context(), id, c.String(), topN)
	if err != nil {
		writeError(rw, r, err)
		return
	}
	rw.Success(RecommendationsResponse{
		DishID:          id,
		Criterion:       c.String(),
		TopN:            topN,
		Recommendations: nonNil(recs),
	})
}

func nonNil(recs []recommend.Recommendation) []recommend.Recommendation {
	if recs == nil {
		return []recommend.Recommendation{}
	}
	return recs
}
