// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// pairKey identifies an unordered pair under one criterion within one index generation.
// Entries from an older generation never match a newer lookup.
type pairKey struct {
	generation uint64
	criterion  Criterion
	a, b       string // a <= b
}

func newPairKey(generation uint64, c Criterion, x, y string) pairKey {
	if y < x {
		x, y = y, x
	}
	return pairKey{generation: generation, criterion: c, a: x, b: y}
}

// PairMemo is a bounded LRU of pairwise similarity scores. It is safe for concurrent use;
// concurrent computation of the same pair is tolerated and the last write wins.
type PairMemo struct {
	lru *cache.LRU[pairKey, float64]
}

// NewPairMemo creates a memo holding at most capacity scores.
func NewPairMemo(capacity int) *PairMemo {
	return &PairMemo{lru: cache.NewLRU[pairKey, float64](capacity)}
}

// Score returns the memoized score for the pair or computes and stores it.
func (m *PairMemo) Score(generation uint64, c Criterion, a, b *Attributes, compute func(a, b *Attributes) float64) float64 {
	key := newPairKey(generation, c, a.ID, b.ID)
	if v, ok := m.lru.Get(key); ok {
		metrics.RecordMemoLookup(string(c), true)
		return v
	}
	metrics.RecordMemoLookup(string(c), false)

	v := compute(a, b)
	m.lru.Add(key, v)
	metrics.MemoEntries.Set(float64(m.lru.Len()))
	return v
}

// Clear drops every memoized score.
func (m *PairMemo) Clear() {
	m.lru.Clear()
	metrics.MemoEntries.Set(0)
}

// Len returns the number of memoized scores.
func (m *PairMemo) Len() int { return m.lru.Len() }

// Stats returns the underlying LRU statistics.
func (m *PairMemo) Stats() cache.LRUStats { return m.lru.Stats() }
