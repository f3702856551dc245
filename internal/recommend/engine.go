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
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// ResponseCachePrefix prefixes every response cache key owned by the engine.
const ResponseCachePrefix = "recommend:"

// scanCheckInterval is how many candidates a live scan scores between context checks.
const scanCheckInterval = 128

// Engine answers similarity queries over the catalog and maintains the precomputed neighbor
// lists. It is safe for concurrent use.
type Engine struct {
	config    *Config
	store     catalog.Store
	responses *cache.Layer
	logger    zerolog.Logger

	// Index lifecycle
	index       atomic.Pointer[Index]
	initialized atomic.Bool
	initMu      sync.Mutex
	generation  atomic.Uint64

	memo    *PairMemo
	scorers map[Criterion]func(a, b *Attributes) float64

	// Recompute state
	recomputeMu   sync.Mutex
	recomputing   atomic.Bool
	writeLimiter  *rate.Limiter
	lastRecompute atomic.Pointer[RecomputeResult]

	requests atomic.Int64
	errCount atomic.Int64
}

// NewEngine creates a new recommendation engine. The index is built lazily on first use.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store catalog.Store, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}

	e := &Engine{
		config: cfg.Clone(),
		store:  store,
		logger: logger.With().Str("component", "recommend").Logger(),
		memo:   NewPairMemo(cfg.Memo.Capacity),
	}

	mode := cfg.CookingMode
	e.scorers = map[Criterion]func(a, b *Attributes) float64{
		CriterionTaste: func(a, b *Attributes) float64 {
			return TasteSimilarity(a.Taste, b.Taste, a.TasteTags, b.TasteTags)
		},
		CriterionIngredient: func(a, b *Attributes) float64 {
			return IngredientSimilarity(a.Ingredients, b.Ingredients)
		},
		CriterionCooking: func(a, b *Attributes) float64 {
			return CookingSimilarity(a.Cooking, b.Cooking, mode)
		},
		CriterionRegion: func(a, b *Attributes) float64 {
			return RegionSimilarity(a.Region, b.Region)
		},
	}

	if cfg.Limits.WriteRate > 0 {
		e.writeLimiter = rate.NewLimiter(rate.Limit(cfg.Limits.WriteRate), cfg.Limits.WriteBurst)
	}

	return e, nil
}

// SetResponseCache enables request-path response caching. Call before serving requests.
func (e *Engine) SetResponseCache(l *cache.Layer) {
	e.responses = l
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// GetRecommendations returns the merged precomputed neighbors of id, or a live composite
// ranking when none are stored. Unknown IDs and store failures yield an empty slice.
func (e *Engine) GetRecommendations(ctx context.Context, id string, topN int) []Recommendation {
	return e.serve(ctx, "all", id, criterionAll, topN)
}

// GetRecommendationsByCriteria is GetRecommendations restricted to one criterion. Region has no
// precomputed list and is always ranked live. Only ErrInvalidCriterion is returned as an error.
func (e *Engine) GetRecommendationsByCriteria(ctx context.Context, id, criterion string, topN int) ([]Recommendation, error) {
	c, err := ParseCriterion(criterion)
	if err != nil {
		return nil, err
	}
	return e.serve(ctx, string(c), id, c, topN), nil
}

// ComputeBatchSimilarities scores one target against many candidates under a criterion
// (taste, ingredient, cooking, region or composite). The target is resolved once. Candidates
// missing from the catalog are omitted from the result.
func (e *Engine) ComputeBatchSimilarities(ctx context.Context, targetID string, candidateIDs []string, criterion string) (map[string]float64, error) {
	c, err := ParseBatchCriterion(criterion)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	out := make(map[string]float64, len(candidateIDs))

	ix, err := e.ensureIndex(ctx)
	if err != nil {
		e.errCount.Add(1)
		e.logger.Warn().Err(err).Str("dish_id", targetID).Msg("batch similarities unavailable")
		metrics.RecordRecommendRequest("batch", SourceEmpty, time.Since(start))
		return out, nil
	}

	target, ok := ix.Get(targetID)
	if !ok {
		metrics.RecordRecommendRequest("batch", SourceEmpty, time.Since(start))
		return out, nil
	}

	candidates := make([]*Attributes, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		if other, ok := ix.Get(id); ok {
			candidates = append(candidates, other)
		}
	}
	for i, s := range e.scoreBatch(ix, target, candidates, c) {
		out[candidates[i].ID] = s
	}

	metrics.RecordRecommendRequest("batch", SourceLive, time.Since(start))
	return out, nil
}

// CompositeScores compares two catalog items under every criterion and blends the result with
// the offline weights. It reports false when either item is not indexed or the index cannot be
// built.
func (e *Engine) CompositeScores(ctx context.Context, idA, idB string) (PairScores, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	ix, err := e.ensureIndex(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("composite scores unavailable")
		return PairScores{}, false
	}

	a, okA := ix.Get(idA)
	b, okB := ix.Get(idB)
	if !okA || !okB {
		return PairScores{}, false
	}

	s := e.scoresFor(ix, true, a, b, Weights{}, true)
	return PairScores{Scores: s, Composite: CompositeSimilarity(s, e.config.Weights.Offline)}, true
}

// Refresh rebuilds the index from the store and swaps it in. Readers keep the previous
// snapshot until the swap.
func (e *Engine) Refresh(ctx context.Context) error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	ix, err := e.buildIndex(ctx)
	if err != nil {
		return err
	}
	e.index.Store(ix)
	e.initialized.Store(true)
	return nil
}

// Stats returns a snapshot of engine state.
func (e *Engine) Stats() Stats {
	memo := e.memo.Stats()
	st := Stats{
		Initialized:   e.initialized.Load(),
		MemoEntries:   memo.Size,
		MemoHits:      memo.Hits,
		MemoMisses:    memo.Misses,
		Requests:      e.requests.Load(),
		Errors:        e.errCount.Load(),
		Recomputing:   e.recomputing.Load(),
		LastRecompute: e.lastRecompute.Load(),
	}
	if ix := e.index.Load(); ix != nil {
		st.IndexItems = ix.Len()
		st.IndexGeneration = ix.Generation()
		st.IndexBuiltAt = ix.BuiltAt()
	}
	return st
}

// ResponseCacheKey returns the response cache key for a request answered from the index
// generation gen. A response written late by a read that started before a rebuild lands under
// the old generation and is never looked up again.
func ResponseCacheKey(gen uint64, id string, c Criterion, topN int) string {
	return fmt.Sprintf("%sg%d:%s:%s:%d", ResponseCachePrefix, gen, id, c, topN)
}

// ensureIndex returns the current index, building it on first use. A failed build is not
// remembered, so the next caller retries.
func (e *Engine) ensureIndex(ctx context.Context) (*Index, error) {
	if e.initialized.Load() {
		return e.index.Load(), nil
	}

	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.initialized.Load() {
		return e.index.Load(), nil
	}

	ix, err := e.buildIndex(ctx)
	if err != nil {
		return nil, err
	}
	e.index.Store(ix)
	e.initialized.Store(true)
	return ix, nil
}

func (e *Engine) buildIndex(ctx context.Context) (*Index, error) {
	start := time.Now()

	items, err := e.store.FindAll(ctx, catalog.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ix := NewIndex(items, e.generation.Add(1))
	metrics.RecordIndexBuild(ix.Len())

	e.logger.Info().
		Int("items", ix.Len()).
		Uint64("generation", ix.Generation()).
		Dur("duration", time.Since(start)).
		Msg("similarity index built")

	return ix, nil
}

// serve runs the read path shared by GetRecommendations and GetRecommendationsByCriteria.
func (e *Engine) serve(ctx context.Context, op, id string, c Criterion, topN int) []Recommendation {
	start := time.Now()
	e.requests.Add(1)
	topN = e.config.clampTopN(topN)

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.RequestTimeout)
	defer cancel()

	fail := func(err error) []Recommendation {
		e.errCount.Add(1)
		e.logger.Warn().
			Err(err).
			Str("dish_id", id).
			Str("criterion", string(c)).
			Msg("recommendations unavailable")
		metrics.RecordRecommendRequest(op, SourceEmpty, time.Since(start))
		return []Recommendation{}
	}

	ix, err := e.ensureIndex(ctx)
	if err != nil {
		return fail(err)
	}

	key := ResponseCacheKey(ix.Generation(), id, c, topN)
	if e.config.ResponseCache.Enabled {
		var cached []Recommendation
		if e.responses.Get(ctx, key, &cached) {
			metrics.RecordRecommendRequest(op, SourceCache, time.Since(start))
			return cached
		}
	}

	recs, source, err := e.resolve(ctx, ix, id, c, topN)
	if err != nil {
		return fail(err)
	}

	if source != SourceEmpty && e.config.ResponseCache.Enabled {
		e.responses.Set(ctx, key, recs, e.config.ResponseCache.TTL)
	}
	metrics.RecordRecommendRequest(op, source, time.Since(start))
	return recs
}

// resolve picks the precomputed or live path for a request.
func (e *Engine) resolve(ctx context.Context, ix *Index, id string, c Criterion, topN int) ([]Recommendation, string, error) {
	item, err := e.store.FindOne(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		e.logger.Debug().Str("dish_id", id).Msg("dish not found")
		return []Recommendation{}, SourceEmpty, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load dish: %w", err)
	}

	// Indexed attributes keep memo entries consistent within a generation. Items added since
	// the last build are vectorized on the fly and scored without the memo.
	target, indexed := ix.Get(id)
	if !indexed {
		target = Vectorize(item)
	}

	switch {
	case c == criterionAll && item.HasSimilarFoods():
		return e.mergePrecomputed(ix, item, PrecomputedCriteria, topN), SourcePrecomputed, nil
	case c == criterionAll:
		recs, err := e.liveComposite(ctx, ix, target, indexed, topN)
		return recs, SourceLive, err
	case len(item.SimilarFoods[string(c)]) > 0:
		return e.mergePrecomputed(ix, item, []Criterion{c}, topN), SourcePrecomputed, nil
	default:
		recs, err := e.liveCriterion(ctx, ix, target, indexed, c, topN)
		return recs, SourceLive, err
	}
}

// mergePrecomputed concatenates the stored per-criterion lists, each truncated to topN, and
// orders the result by similarity. Neighbors no longer in the index are skipped.
func (e *Engine) mergePrecomputed(ix *Index, item *catalog.Item, criteria []Criterion, topN int) []Recommendation {
	recs := make([]Recommendation, 0, topN*len(criteria))
	for _, c := range criteria {
		entries := item.SimilarFoods[string(c)]
		if len(entries) > topN {
			entries = entries[:topN]
		}
		for _, entry := range entries {
			if entry.ID == item.ID {
				continue
			}
			neighbor, ok := ix.Get(entry.ID)
			if !ok {
				e.logger.Debug().
					Str("dish_id", item.ID).
					Str("neighbor_id", entry.ID).
					Msg("precomputed neighbor not indexed, skipping")
				continue
			}
			recs = append(recs, newRecommendation(neighbor, c, entry.Similarity))
		}
	}
	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	return recs
}

func (e *Engine) liveComposite(ctx context.Context, ix *Index, target *Attributes, memoize bool, topN int) ([]Recommendation, error) {
	w := e.config.Weights.Online
	ranked, err := e.rank(ctx, ix, target, topN, func(other *Attributes) (float64, Scores) {
		s := e.scoresFor(ix, memoize, target, other, w, false)
		return CompositeSimilarity(s, w), s
	})
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		rec := newRecommendation(r.attrs, CriterionComposite, r.score)
		rec.Details = make(map[Criterion]float64, 4)
		for _, c := range []Criterion{CriterionTaste, CriterionIngredient, CriterionCooking, CriterionRegion} {
			if w.Uses(c) {
				rec.Details[c] = r.scores.Get(c)
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (e *Engine) liveCriterion(ctx context.Context, ix *Index, target *Attributes, memoize bool, c Criterion, topN int) ([]Recommendation, error) {
	ranked, err := e.rank(ctx, ix, target, topN, func(other *Attributes) (float64, Scores) {
		return e.score(ix, memoize, c, target, other), Scores{}
	})
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		recs = append(recs, newRecommendation(r.attrs, c, r.score))
	}
	return recs, nil
}

type rankedItem struct {
	attrs  *Attributes
	score  float64
	scores Scores
}

// rank scores every other indexed item and returns the topN best. Ties keep catalog order.
func (e *Engine) rank(ctx context.Context, ix *Index, target *Attributes, topN int, score func(*Attributes) (float64, Scores)) ([]rankedItem, error) {
	items := ix.Items()
	out := make([]rankedItem, 0, len(items))
	for i, other := range items {
		if i%scanCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if other.ID == target.ID {
			continue
		}
		s, detail := score(other)
		out = append(out, rankedItem{attrs: other, score: s, scores: detail})
	}

	slices.SortStableFunc(out, func(a, b rankedItem) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// scoreBatch scores target against every candidate under c, or the offline composite. The
// result lines up with candidates.
func (e *Engine) scoreBatch(ix *Index, target *Attributes, candidates []*Attributes, c Criterion) []float64 {
	out := make([]float64, len(candidates))
	if c == CriterionComposite {
		w := e.config.Weights.Offline
		for i, other := range candidates {
			out[i] = CompositeSimilarity(e.scoresFor(ix, true, target, other, Weights{}, true), w)
		}
		return out
	}

	fn := e.scorers[c]
	gen := ix.Generation()
	for i, other := range candidates {
		out[i] = e.memo.Score(gen, c, target, other, fn)
	}
	return out
}

// score returns a single-criterion score, going through the memo when memoize is set.
func (e *Engine) score(ix *Index, memoize bool, c Criterion, a, b *Attributes) float64 {
	fn := e.scorers[c]
	if !memoize {
		return fn(a, b)
	}
	return e.memo.Score(ix.Generation(), c, a, b, fn)
}

// scoresFor computes the criteria that carry weight in w, or all of them when all is set.
func (e *Engine) scoresFor(ix *Index, memoize bool, a, b *Attributes, w Weights, all bool) Scores {
	var s Scores
	if all || w.Uses(CriterionTaste) {
		s.Taste = e.score(ix, memoize, CriterionTaste, a, b)
	}
	if all || w.Uses(CriterionIngredient) {
		s.Ingredient = e.score(ix, memoize, CriterionIngredient, a, b)
	}
	if all || w.Uses(CriterionCooking) {
		s.Cooking = e.score(ix, memoize, CriterionCooking, a, b)
	}
	if all || w.Uses(CriterionRegion) {
		s.Region = e.score(ix, memoize, CriterionRegion, a, b)
	}
	return s
}

func newRecommendation(a *Attributes, c Criterion, similarity float64) Recommendation {
	return Recommendation{
		ID:         a.ID,
		NameKo:     a.NameKo,
		NameEn:     a.NameEn,
		Criterion:  c,
		Similarity: similarity,
	}
}
