// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package main

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/config"
	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
)

// initCache builds the generic cache layer. A backend that cannot be reached is logged and the
// service runs uncached (nil layer) rather than failing to start.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initCache(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*cache.Layer, func()) {
	c := cfg.Cache
	var (
		backend cache.Backend
		db      *badger.DB
	)

	switch cache.Kind(c.Backend) {
	case cache.KindNone, "":
		logger.Info().Msg("Response cache disabled (CACHE_BACKEND=none)")
		return nil, func() {}

	case cache.KindMemory:
		backend = cache.NewMemoryBackend(c.CleanupInterval)

	case cache.KindRedis:
		client, err := cache.ConnectRedis(ctx, cache.RedisConfig{
			Addr:        c.Redis.Addr,
			Password:    c.Redis.Password,
			DB:          c.Redis.DB,
			DialTimeout: c.Redis.DialTimeout,
			KeyPrefix:   c.Redis.KeyPrefix,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, continuing without response cache")
			return nil, func() {}
		}
		backend = cache.NewRedisBackend(client, c.Redis.KeyPrefix)
		logger.Info().
			Str("addr", c.Redis.Addr).
			Str("password", logging.SecretPresence(c.Redis.Password)).
			Int("db", c.Redis.DB).
			Msg("Connected to Redis")

	case cache.KindBadger:
		var err error
		db, err = catalog.OpenBadger(c.Badger.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Badger cache unavailable, continuing without response cache")
			return nil, func() {}
		}
		backend = cache.NewBadgerBackend(db)

	default:
		logger.Warn().Str("backend", c.Backend).Msg("Unknown cache backend, continuing without response cache")
		return nil, func() {}
	}

	layer := cache.NewLayer(backend, c.DefaultTTL, logger)
	logger.Info().Str("backend", layer.Backend()).Dur("default_ttl", c.DefaultTTL).Msg("Response cache initialized")

	return layer, func() {
		if err := layer.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing cache backend")
		}
		if db != nil {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing badger cache")
			}
		}
	}
}
