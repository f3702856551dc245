// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// Refresher rebuilds the in-memory similarity index.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// WarmupService builds the index once at startup so the first request does not pay
// for it. A failure is returned to the supervisor, which retries with backoff; after
// a success the service leaves the tree.
type WarmupService struct {
	engine  Refresher
	timeout time.Duration
	logger  zerolog.Logger
}

// NewWarmupService creates the warm-up job.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWarmupService(engine Refresher, timeout time.Duration, logger zerolog.Logger) *WarmupService {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &WarmupService{
		engine:  engine,
		timeout: timeout,
		logger:  logger.With().Str("service", "index-warmup").Logger(),
	}
}

// Serve implements suture.Service.
func (w *WarmupService) Serve(ctx context.Context) error {
	refreshCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	if err := w.engine.Refresh(refreshCtx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("index warm-up: %w", err)
	}

	w.logger.Info().Dur("duration", time.Since(start)).Msg("similarity index warmed")
	return suture.ErrDoNotRestart
}

func (w *WarmupService) String() string {
	return "index-warmup"
}
