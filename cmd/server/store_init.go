// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/config"
	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
)

// initStore opens the configured catalog store, wraps it in the circuit breaker and seeds it
// when empty. The returned cleanup closes the underlying connection.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalog.Store, func(), error) {
	var (
		store   catalog.Store
		cleanup = func() {}
	)

	switch cfg.Store.Backend {
	case "memory", "":
		store = catalog.NewMemoryStore()
		logger.Info().Msg("Using in-memory catalog store")

	case "badger":
		db, err := catalog.OpenBadger(cfg.Store.Badger.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger catalog: %w", err)
		}
		store = catalog.NewBadgerStore(db)
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing badger catalog")
			}
		}
		logger.Info().Str("path", cfg.Store.Badger.Path).Msg("Using badger catalog store")

	case "mongo":
		m := cfg.Store.Mongo
		client, err := catalog.ConnectMongo(ctx, catalog.MongoConfig{
			URI:            m.URI,
			Database:       m.Database,
			Collection:     m.Collection,
			ConnectTimeout: m.ConnectTimeout,
			MaxPoolSize:    m.MaxPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		collection := m.Collection
		if collection == "" {
			collection = catalog.DefaultCollection
		}
		mongoStore := catalog.NewMongoStore(client.Database(m.Database).Collection(collection))
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to ensure catalog indexes")
		}
		store = mongoStore
		cleanup = func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
			}
		}
		logger.Info().
			Str("uri", logging.RedactURI(m.URI)).
			Str("database", m.Database).
			Str("collection", collection).
			Msg("Connected to MongoDB catalog")

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if b := cfg.Store.Breaker; b.Enabled {
		store = catalog.NewBreakerStore(store, catalog.BreakerConfig{
			Name:         "catalog-" + cfg.Store.Backend,
			MaxRequests:  b.MaxRequests,
			Interval:     b.Interval,
			Timeout:      b.Timeout,
			MinRequests:  b.MinRequests,
			FailureRatio: b.FailureRatio,
		}, logger)
	}

	if err := seedStore(ctx, store, cfg.Store.SeedFile, logger); err != nil {
		cleanup()
		return nil, nil, err
	}
	return store, cleanup, nil
}

// seedStore loads path into an empty store. A missing file is not an error.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func seedStore(ctx context.Context, store catalog.Store, path string, logger zerolog.Logger) error {
	if path == "" {
		return nil
	}
	items, err := catalog.LoadSeedFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn().Str("seed_file", path).Msg("Seed file not found, starting with the existing catalog")
		return nil
	}
	if err != nil {
		return err
	}

	n, err := catalog.Seed(ctx, store, items, logger)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if n > 0 {
		logger.Info().Int("dishes", n).Str("seed_file", path).Msg("Catalog seeded")
	}
	return nil
}
