// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// ErrRecomputeInProgress is returned when RecomputeAll is called while a pass is running.
var ErrRecomputeInProgress = errors.New("recommend: recompute already in progress")

// invalidateTimeout bounds post-pass invalidation, which runs even if the pass was canceled.
const invalidateTimeout = 30 * time.Second

type recomputeCounts struct {
	processed atomic.Int64
	updated   atomic.Int64
	failed    atomic.Int64
}

// RecomputeAll rebuilds the precomputed neighbor lists of every catalog item. Each item gets
// the top NeighborsK neighbors per precomputed criterion, excluding itself and non-positive
// scores, and is written back only when its lists changed. Items that fail to write are logged
// and skipped. Afterwards the pair memo and response cache are cleared and the index rebuilt.
//
// The returned result is always non-nil unless the error is ErrRecomputeInProgress.
func (e *Engine) RecomputeAll(ctx context.Context) (*RecomputeResult, error) {
	if err := e.acquireRecomputeLock(); err != nil {
		return nil, err
	}
	defer e.recomputeMu.Unlock()
	defer e.recomputing.Store(false)

	result := &RecomputeResult{StartedAt: time.Now()}
	e.logger.Info().Msg("starting similarity recompute")

	var counts recomputeCounts
	err := e.recompute(ctx, &counts)

	result.Processed = int(counts.processed.Load())
	result.UpdatedCount = int(counts.updated.Load())
	result.Failed = int(counts.failed.Load())
	result.Duration = time.Since(result.StartedAt)
	result.Success = err == nil
	if err != nil {
		result.Error = err.Error()
	}

	metrics.RecordRecompute(result.Success, result.UpdatedCount, result.Failed, result.Duration)
	snapshot := *result
	e.lastRecompute.Store(&snapshot)

	if err != nil {
		e.logger.Error().
			Err(err).
			Int("processed", result.Processed).
			Int("updated", result.UpdatedCount).
			Msg("similarity recompute failed")
		return result, err
	}

	e.logger.Info().
		Int("processed", result.Processed).
		Int("updated", result.UpdatedCount).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("similarity recompute complete")
	return result, nil
}

// acquireRecomputeLock attempts to acquire the recompute lock.
func (e *Engine) acquireRecomputeLock() error {
	if !e.recomputeMu.TryLock() {
		metrics.RecordRecomputeSkipped()
		return ErrRecomputeInProgress
	}
	e.recomputing.Store(true)
	return nil
}

func (e *Engine) recompute(ctx context.Context, counts *recomputeCounts) error {
	if err := e.Refresh(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	ix := e.index.Load()
	items := ix.Items()

	// Writes that landed before a cancellation are durable, so invalidation runs regardless.
	defer e.invalidateAfterRecompute(ctx, counts)

	size := e.config.Limits.BatchSize
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		if err := e.recomputeBatch(ctx, ix, items[start:end], counts); err != nil {
			return fmt.Errorf("batch at offset %d: %w", start, err)
		}
		e.logger.Debug().
			Int("offset", start).
			Int("size", end-start).
			Int64("updated", counts.updated.Load()).
			Msg("recompute batch done")
	}
	return nil
}

// recomputeBatch scores and writes back one batch. It fails only when ctx ends.
func (e *Engine) recomputeBatch(ctx context.Context, ix *Index, batch []*Attributes, counts *recomputeCounts) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Limits.RecomputeWorkers)

	for _, target := range batch {
		g.Go(func() error {
			changed, err := e.recomputeItem(gctx, ix, target)
			switch {
			case err == nil:
				counts.processed.Add(1)
				if changed {
					counts.updated.Add(1)
				}
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				counts.processed.Add(1)
				counts.failed.Add(1)
				e.logger.Warn().
					Err(err).
					Str("dish_id", target.ID).
					Msg("similarity write-back failed, skipping")
			}
			return nil
		})
	}
	return g.Wait()
}

// recomputeItem writes one item's neighbor lists and reports whether the stored value changed.
func (e *Engine) recomputeItem(ctx context.Context, ix *Index, target *Attributes) (bool, error) {
	sf := make(catalog.SimilarFoods, len(PrecomputedCriteria))
	for _, c := range PrecomputedCriteria {
		sf[string(c)] = e.topNeighbors(ix, target, c)
	}

	if e.writeLimiter != nil {
		if err := e.writeLimiter.Wait(ctx); err != nil {
			return false, err
		}
	}

	n, err := e.store.UpdateSimilarFoods(ctx, target.ID, sf)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// topNeighbors returns the NeighborsK best positive-scoring items for target. Taste and
// ingredient go through the batch scorer; cooking is scored pair by pair. Ties keep catalog
// order.
func (e *Engine) topNeighbors(ix *Index, target *Attributes, c Criterion) []catalog.SimilarEntry {
	items := ix.Items()

	var scores []float64
	if c == CriterionCooking {
		scores = make([]float64, len(items))
		for i, other := range items {
			if other.ID != target.ID {
				scores[i] = e.score(ix, true, c, target, other)
			}
		}
	} else {
		scores = e.scoreBatch(ix, target, items, c)
	}

	candidates := make([]rankedItem, 0, len(items))
	for i, other := range items {
		if other.ID == target.ID || scores[i] <= 0 {
			continue
		}
		candidates = append(candidates, rankedItem{attrs: other, score: scores[i]})
	}

	slices.SortStableFunc(candidates, func(a, b rankedItem) int {
		return cmp.Compare(b.score, a.score)
	})

	k := min(e.config.Limits.NeighborsK, len(candidates))
	entries := make([]catalog.SimilarEntry, 0, k)
	for _, r := range candidates[:k] {
		entries = append(entries, catalog.SimilarEntry{
			ID:         r.attrs.ID,
			Name:       r.attrs.DisplayName(),
			Similarity: r.score,
		})
	}
	return entries
}

// invalidateAfterRecompute clears derived state so no score or response computed before the
// pass is served after it.
func (e *Engine) invalidateAfterRecompute(ctx context.Context, counts *recomputeCounts) {
	if counts.processed.Load() == 0 {
		return
	}

	e.memo.Clear()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	e.responses.Invalidate(ctx, ResponseCachePrefix+cache.Wildcard)

	if err := e.Refresh(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("index rebuild after recompute failed, keeping previous generation")
	}
}
