// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package main

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/config"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
	"github.com/Elijahuni/K-FOOD-LENS/internal/supervisor"
	"github.com/Elijahuni/K-FOOD-LENS/internal/supervisor/services"
)

// warmupTimeout bounds the first index build.
const warmupTimeout = 2 * time.Minute

// initRecommend creates the engine and registers its warm-up and recompute services.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, store catalog.Store, responseCache *cache.Layer, tree *supervisor.SupervisorTree, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := cfg.Recommend.EngineConfig()

	logger.Info().
		Str("cooking_mode", string(engineCfg.CookingMode)).
		Int("neighbors_k", engineCfg.Limits.NeighborsK).
		Int("workers", engineCfg.Limits.RecomputeWorkers).
		Bool("response_cache", engineCfg.ResponseCache.Enabled && responseCache != nil).
		Msg("initializing recommendation engine")

	engine, err := recommend.NewEngine(engineCfg, store, logger)
	if err != nil {
		return nil, err
	}
	if engineCfg.ResponseCache.Enabled {
		engine.SetResponseCache(responseCache)
	}

	tree.AddDataService(services.NewWarmupService(engine, warmupTimeout, logger))

	rc := cfg.Recommend.Recompute
	if rc.OnStartup || rc.Interval > 0 {
		tree.AddJobService(services.NewRecomputeService(engine, services.RecomputeServiceConfig{
			RunOnStartup: rc.OnStartup,
			Interval:     rc.Interval,
			Timeout:      rc.Timeout,
			RetryDelay:   rc.RetryDelay,
		}, logger))
		logger.Info().
			Bool("on_startup", rc.OnStartup).
			Dur("interval", rc.Interval).
			Msg("Recompute job added to supervisor tree")
	} else {
		logger.Info().Msg("Recompute schedule disabled (RECOMPUTE_INTERVAL=0)")
	}

	return engine, nil
}
