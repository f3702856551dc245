// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// LoadSeedFile reads a JSON array of items.
func LoadSeedFile(path string) ([]*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var items []*Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	for i, it := range items {
		if it == nil || it.ID == "" {
			return nil, fmt.Errorf("seed file %s: item %d has no dishId", path, i)
		}
	}
	return items, nil
}

// Seed upserts items into store when the store is empty. It returns the number of items written;
// a non-empty store is left untouched and reports 0.
func Seed(ctx context.Context, store Store, items []*Item, logger zerolog.Logger) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		logger.Debug().Int64("existing", n).Msg("Catalog already populated, skipping seed")
		return 0, nil
	}

	for _, it := range items {
		if err := store.Upsert(ctx, it); err != nil {
			return 0, fmt.Errorf("seed dish %s: %w", it.ID, err)
		}
	}

	logger.Info().Int("items", len(items)).Msg("Seeded catalog")
	return len(items), nil
}
