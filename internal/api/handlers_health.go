// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

const healthStoreTimeout = 2 * time.Second

// HealthStatus is the /health payload.
type HealthStatus struct {
	Status         string          `json:"status"`
	Version        string          `json:"version"`
	StoreConnected bool            `json:"store_connected"`
	Dishes         int64           `json:"dishes"`
	CacheBackend   string          `json:"cache_backend"`
	Engine         recommend.Stats `json:"engine"`
	Uptime         float64         `json:"uptime_seconds"`
}

// Health handles GET /health. It always answers 200; a store failure reports "degraded" and
// an engine that has not built its index yet reports "starting".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), healthStoreTimeout)
	defer cancel()

	status := HealthStatus{
		Status:       "healthy",
		Version:      h.config.Version,
		CacheBackend: h.cache.Backend(),
		Engine:       h.engine.Stats(),
		Uptime:       time.Since(h.startTime).Seconds(),
	}

	n, err := h.store.Count(ctx)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("health check: catalog store unreachable")
		status.Status = "degraded"
	} else {
		status.StoreConnected = true
		status.Dishes = n
	}
	if !status.Engine.Initialized && status.Status == "healthy" {
		status.Status = "starting"
	}

	rw.Success(status)
}
