// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Elijahuni/K-FOOD-LENS/internal/middleware"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	Middleware *ChiMiddlewareConfig

	// SlowRequestThreshold promotes request logs to warn. Zero uses one second.
	SlowRequestThreshold time.Duration

	// AdminRateLimit is the per-IP budget of /api/v1/admin per RateLimitWindow.
	AdminRateLimit int
}

// Router wires the handlers into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = time.Second
	}
	if cfg.AdminRateLimit <= 0 {
		cfg.AdminRateLimit = 10
	}
	mw := NewChiMiddleware(cfg.Middleware)
	cfg.Middleware = mw.config
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		config:        cfg,
	}
}

// Handler builds the http.Handler.
//
//	GET  /health
//	GET  /metrics
//	GET  /api/v1/dishes/{id}
//	GET  /api/v1/dishes/{id}/recommendations?top_n=
//	GET  /api/v1/dishes/{id}/recommendations/{criterion}?top_n=
//	POST /api/v1/similarities/batch
//	POST /api/v1/admin/recompute
//	POST /api/v1/admin/cache/invalidate
func (router *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(router.config.SlowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.With(APISecurityHeaders).Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders)
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Route("/dishes/{id}", func(r chi.Router) {
			r.Get("/", router.handler.GetDish)
			r.Get("/recommendations", router.handler.GetRecommendations)
			r.Get("/recommendations/{criterion}", router.handler.GetRecommendationsByCriterion)
		})

		r.Post("/similarities/batch", router.handler.BatchSimilarities)

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(router.config.AdminRateLimit, router.config.Middleware.RateLimitWindow))
			r.Post("/recompute", router.handler.Recompute)
			r.Post("/cache/invalidate", router.handler.InvalidateCache)
		})
	})

	return r
}
