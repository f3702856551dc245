// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// MemoryStore is a map-backed Store. Items are cloned on the way in and out.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// NewMemoryStore creates a store preloaded with items.
func NewMemoryStore(items ...*Item) *MemoryStore {
	s := &MemoryStore{items: make(map[string]*Item, len(items))}
	for _, it := range items {
		s.items[it.ID] = it.Clone()
	}
	return s
}

// FindOne implements Store.
func (s *MemoryStore) FindOne(ctx context.Context, id string) (*Item, error) {
	start := time.Now()
	item, err := s.findOne(ctx, id)
	metrics.RecordStoreOperation("memory", "find_one", time.Since(start), ignoreNotFound(err))
	return item, err
}

func (s *MemoryStore) findOne(ctx context.Context, id string) (*Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item.Clone(), nil
}

// FindAll implements Store.
func (s *MemoryStore) FindAll(ctx context.Context, filter Filter) ([]*Item, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOperation("memory", "find_all", time.Since(start), nil)
	}()

	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	s.mu.RLock()
	out := make([]*Item, 0, len(s.items))
	for _, it := range s.items {
		if filter.Matches(it) {
			out = append(out, it.Clone())
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Item) int { return cmp.Compare(a.ID, b.ID) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpdateSimilarFoods implements Store.
func (s *MemoryStore) UpdateSimilarFoods(ctx context.Context, id string, sf SimilarFoods) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return 0, nil
	}
	if item.SimilarFoods.Equal(sf) {
		return 0, nil
	}
	item.SimilarFoods = sf.Clone()
	return 1, nil
}

// Upsert implements Store.
func (s *MemoryStore) Upsert(ctx context.Context, item *Item) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}

	s.mu.Lock()
	s.items[item.ID] = item.Clone()
	s.mu.Unlock()
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, unavailable(err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
