// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/cache"
	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
)

// fakeStore wraps a MemoryStore and injects failures or delays.
type fakeStore struct {
	*catalog.MemoryStore

	findAllCalls  atomic.Int32
	findAllFails  atomic.Int32 // number of upcoming FindAll calls that fail
	findOneErr    error
	findOneBlocks bool

	updateErrs    map[string]error
	updateGate    chan struct{} // when non-nil, UpdateSimilarFoods waits for it to close
	updateEntered chan struct{}
	enteredOnce   sync.Once
}

func newFakeStore(items ...*catalog.Item) *fakeStore {
	return &fakeStore{MemoryStore: catalog.NewMemoryStore(items...)}
}

func (s *fakeStore) FindAll(ctx context.Context, filter catalog.Filter) ([]*catalog.Item, error) {
	s.findAllCalls.Add(1)
	if s.findAllFails.Load() > 0 {
		s.findAllFails.Add(-1)
		return nil, catalog.ErrUnavailable
	}
	return s.MemoryStore.FindAll(ctx, filter)
}

func (s *fakeStore) FindOne(ctx context.Context, id string) (*catalog.Item, error) {
	if s.findOneBlocks {
		<-ctx.Done()
		return nil, errors.Join(catalog.ErrUnavailable, ctx.Err())
	}
	if s.findOneErr != nil {
		return nil, s.findOneErr
	}
	return s.MemoryStore.FindOne(ctx, id)
}

func (s *fakeStore) UpdateSimilarFoods(ctx context.Context, id string, sf catalog.SimilarFoods) (int64, error) {
	if s.updateGate != nil {
		s.enteredOnce.Do(func() { close(s.updateEntered) })
		<-s.updateGate
	}
	if err := s.updateErrs[id]; err != nil {
		return 0, err
	}
	return s.MemoryStore.UpdateSimilarFoods(ctx, id, sf)
}

func tasteDish(id string, saltiness, umami float64) *catalog.Item {
	return &catalog.Item{ID: id, NameKo: id, Taste: catalog.Taste{Saltiness: saltiness, Umami: umami}}
}

// koreanTable returns four fully described dishes.
func koreanTable() []*catalog.Item {
	return []*catalog.Item{
		{
			ID: "bibimbap", NameKo: "비빔밥", NameEn: "Bibimbap",
			Taste:         catalog.Taste{Spiciness: 2, Sweetness: 1, Saltiness: 2, Umami: 3},
			Ingredients:   catalog.Ingredients{Main: []string{"쌀", "고사리", "계란"}, Sauce: []string{"고추장", "참기름"}},
			CookingMethod: catalog.CookingMethod{Primary: "비비기", Secondary: []string{"볶기"}, Time: 30, Difficulty: 2},
			Region:        catalog.Region{Origin: "전주", Popular: []string{"전국"}, Traditional: true},
		},
		{
			ID: "bulgogi", NameKo: "불고기", NameEn: "Bulgogi",
			Taste:         catalog.Taste{Sweetness: 4, Saltiness: 3, Umami: 4},
			Ingredients:   catalog.Ingredients{Main: []string{"소고기", "양파"}, Sauce: []string{"간장", "설탕", "참기름"}},
			CookingMethod: catalog.CookingMethod{Primary: "굽기", Time: 40, Difficulty: 3},
			Region:        catalog.Region{Origin: "서울", Popular: []string{"전국"}, Traditional: true},
		},
		{
			ID: "gimbap", NameKo: "김밥", NameEn: "Gimbap",
			Taste:         catalog.Taste{Sweetness: 1, Saltiness: 3, Umami: 4},
			Ingredients:   catalog.Ingredients{Main: []string{"쌀", "김", "계란"}, Sauce: []string{"참기름", "소금"}},
			CookingMethod: catalog.CookingMethod{Primary: "말기", Secondary: []string{"볶기"}, Time: 40, Difficulty: 3},
			Region:        catalog.Region{Origin: "서울", Popular: []string{"전국"}},
		},
		{
			ID: "kimchi-jjigae", NameKo: "김치찌개", NameEn: "Kimchi Stew",
			Taste:         catalog.Taste{Spiciness: 4, Saltiness: 4, Sourness: 3, Umami: 3},
			Ingredients:   catalog.Ingredients{Main: []string{"김치", "돼지고기", "두부"}, Sauce: []string{"고춧가루"}},
			CookingMethod: catalog.CookingMethod{Primary: "끓이기", Time: 30, Difficulty: 2},
			Region:        catalog.Region{Origin: "서울", Popular: []string{"전국"}, Traditional: true},
		},
	}
}

func newTestEngine(t *testing.T, store catalog.Store, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	e, err := NewEngine(cfg, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func recIDs(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, nil, zerolog.Nop()); err == nil {
		t.Error("NewEngine(nil store) error = nil")
	}

	bad := DefaultConfig()
	bad.Limits.BatchSize = 0
	if _, err := NewEngine(bad, newFakeStore(), zerolog.Nop()); err == nil {
		t.Error("NewEngine(invalid config) error = nil")
	}
}

func TestEngine_GetRecommendationsByCriteria_TasteScenario(t *testing.T) {
	t.Parallel()

	store := newFakeStore(tasteDish("gimbap", 3, 4), tasteDish("bibimbap", 2, 3), tasteDish("kimchi", 4, 2))
	e := newTestEngine(t, store, nil)

	recs, err := e.GetRecommendationsByCriteria(context.Background(), "gimbap", "taste", 2)
	if err != nil {
		t.Fatalf("GetRecommendationsByCriteria() error = %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "bibimbap" || recs[1].ID != "kimchi" {
		t.Fatalf("got %v, want [bibimbap kimchi]", recIDs(recs))
	}
	if !approx(recs[0].Similarity, 0.99, 0.01) || !approx(recs[1].Similarity, 0.89, 0.01) {
		t.Errorf("similarities = %v, %v; want ~0.99, ~0.89", recs[0].Similarity, recs[1].Similarity)
	}
	if recs[0].Criterion != CriterionTaste {
		t.Errorf("Criterion = %q, want taste", recs[0].Criterion)
	}
}

func TestEngine_GetRecommendationsByCriteria_InvalidCriterion(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, newFakeStore(koreanTable()...), nil)
	_, err := e.GetRecommendationsByCriteria(context.Background(), "gimbap", "texture", 3)
	if !errors.Is(err, ErrInvalidCriterion) {
		t.Errorf("error = %v, want ErrInvalidCriterion", err)
	}
}

func TestEngine_GetRecommendations_UnknownID(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, newFakeStore(koreanTable()...), nil)
	recs := e.GetRecommendations(context.Background(), "pizza", 3)
	if recs == nil || len(recs) != 0 {
		t.Errorf("GetRecommendations(unknown) = %v, want empty non-nil slice", recs)
	}
}

func TestEngine_GetRecommendations_Precomputed(t *testing.T) {
	t.Parallel()

	target := tasteDish("gimbap", 3, 4)
	target.SimilarFoods = catalog.SimilarFoods{
		"taste": {
			{ID: "bibimbap", Similarity: 0.9},
			{ID: "ghost", Similarity: 0.85},
			{ID: "kimchi", Similarity: 0.8},
		},
		"ingredient": {{ID: "kimchi", Similarity: 0.95}},
	}
	store := newFakeStore(target, tasteDish("bibimbap", 2, 3), tasteDish("kimchi", 4, 2))
	e := newTestEngine(t, store, nil)

	recs := e.GetRecommendations(context.Background(), "gimbap", 2)

	// Taste is truncated to two entries before the missing "ghost" is skipped.
	if len(recs) != 2 {
		t.Fatalf("got %v, want 2 entries", recIDs(recs))
	}
	if recs[0].ID != "kimchi" || recs[0].Criterion != CriterionIngredient || recs[0].Similarity != 0.95 {
		t.Errorf("recs[0] = %+v, want kimchi/ingredient/0.95", recs[0])
	}
	if recs[1].ID != "bibimbap" || recs[1].Criterion != CriterionTaste {
		t.Errorf("recs[1] = %+v, want bibimbap/taste", recs[1])
	}

	byCrit, err := e.GetRecommendationsByCriteria(context.Background(), "gimbap", "ingredient", 3)
	if err != nil || len(byCrit) != 1 || byCrit[0].ID != "kimchi" {
		t.Errorf("ByCriteria(ingredient) = %v, %v; want [kimchi]", recIDs(byCrit), err)
	}
}

func TestEngine_GetRecommendations_LiveComposite(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, newFakeStore(koreanTable()...), nil)
	recs := e.GetRecommendations(context.Background(), "gimbap", 2)

	if len(recs) != 2 {
		t.Fatalf("got %v, want 2 entries", recIDs(recs))
	}
	for i, r := range recs {
		if r.ID == "gimbap" {
			t.Errorf("recs[%d] is the queried dish", i)
		}
		if r.Criterion != CriterionComposite {
			t.Errorf("recs[%d].Criterion = %q, want composite", i, r.Criterion)
		}
		if _, ok := r.Details[CriterionCooking]; ok {
			t.Errorf("recs[%d].Details has zero-weight cooking: %v", i, r.Details)
		}
		want := 0.7*r.Details[CriterionTaste] + 0.3*r.Details[CriterionIngredient]
		if !approx(r.Similarity, want, epsilon) {
			t.Errorf("recs[%d].Similarity = %v, want %v", i, r.Similarity, want)
		}
	}
	if recs[0].Similarity < recs[1].Similarity {
		t.Errorf("results not sorted: %v < %v", recs[0].Similarity, recs[1].Similarity)
	}
}

func TestEngine_LiveTiesKeepCatalogOrder(t *testing.T) {
	t.Parallel()

	store := newFakeStore(
		tasteDish("a", 1, 1), tasteDish("d", 1, 1), tasteDish("c", 1, 1), tasteDish("b", 1, 1),
	)
	e := newTestEngine(t, store, nil)

	recs, err := e.GetRecommendationsByCriteria(context.Background(), "a", "taste", 3)
	if err != nil {
		t.Fatal(err)
	}
	got := recIDs(recs)
	want := []string{"b", "c", "d"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestEngine_RegionIsAlwaysLive(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, newFakeStore(koreanTable()...), nil)
	recs, err := e.GetRecommendationsByCriteria(context.Background(), "bulgogi", "region", 1)
	if err != nil {
		t.Fatal(err)
	}
	// kimchi-jjigae shares origin, popular locales and the traditional flag.
	if len(recs) != 1 || recs[0].ID != "kimchi-jjigae" || !approx(recs[0].Similarity, 1, epsilon) {
		t.Errorf("region recs = %+v, want kimchi-jjigae at 1.0", recs)
	}
}

func TestEngine_ComputeBatchSimilarities(t *testing.T) {
	t.Parallel()

	items := append(koreanTable(), &catalog.Item{ID: "water", NameKo: "물"})
	e := newTestEngine(t, newFakeStore(items...), nil)
	ctx := context.Background()

	got, err := e.ComputeBatchSimilarities(ctx, "gimbap", []string{"bibimbap", "water", "missing"}, "ingredient")
	if err != nil {
		t.Fatalf("ComputeBatchSimilarities() error = %v", err)
	}
	if _, ok := got["missing"]; ok {
		t.Error("unknown candidate present in result")
	}
	if v, ok := got["water"]; !ok || v != 0 {
		t.Errorf("water ingredient similarity = %v (present %v), want 0", v, ok)
	}
	// {쌀, 계란, 참기름} shared out of 7 distinct ingredients.
	if !approx(got["bibimbap"], 3.0/7, epsilon) {
		t.Errorf("bibimbap ingredient similarity = %v, want 3/7", got["bibimbap"])
	}

	composite, err := e.ComputeBatchSimilarities(ctx, "gimbap", []string{"bulgogi"}, "composite")
	if err != nil {
		t.Fatal(err)
	}
	pair, ok := e.CompositeScores(ctx, "gimbap", "bulgogi")
	if !ok {
		t.Fatal("CompositeScores() not found")
	}
	if !approx(composite["bulgogi"], pair.Composite, epsilon) {
		t.Errorf("batch composite %v != CompositeScores %v", composite["bulgogi"], pair.Composite)
	}
	// Same time and difficulty with different primary techniques.
	if !approx(pair.Cooking, 1, epsilon) {
		t.Errorf("pair.Cooking = %v, want 1", pair.Cooking)
	}

	empty, err := e.ComputeBatchSimilarities(ctx, "pizza", []string{"gimbap"}, "taste")
	if err != nil || len(empty) != 0 {
		t.Errorf("unknown target = %v, %v; want empty map", empty, err)
	}

	if _, err := e.ComputeBatchSimilarities(ctx, "gimbap", nil, "spice"); !errors.Is(err, ErrInvalidCriterion) {
		t.Errorf("invalid criterion error = %v", err)
	}
}

func TestEngine_LazyInitRetriesAfterFailure(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()...)
	store.findAllFails.Store(1)
	e := newTestEngine(t, store, nil)
	ctx := context.Background()

	if recs := e.GetRecommendations(ctx, "gimbap", 3); len(recs) != 0 {
		t.Errorf("first call = %v, want empty while store is down", recIDs(recs))
	}
	if e.Stats().Initialized {
		t.Error("failed initialization was remembered")
	}

	if recs := e.GetRecommendations(ctx, "gimbap", 3); len(recs) != 3 {
		t.Errorf("second call = %v, want 3 results after recovery", recIDs(recs))
	}
	if !e.Stats().Initialized || e.Stats().Errors != 1 {
		t.Errorf("Stats() = %+v, want initialized with one error", e.Stats())
	}
}

func TestEngine_ConcurrentFirstUseBuildsOnce(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()...)
	e := newTestEngine(t, store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.GetRecommendations(context.Background(), "gimbap", 3)
		}()
	}
	wg.Wait()

	if n := store.findAllCalls.Load(); n != 1 {
		t.Errorf("FindAll called %d times, want 1", n)
	}
}

func TestEngine_StoreFailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()...)
	store.findOneErr = catalog.ErrUnavailable
	e := newTestEngine(t, store, nil)

	recs := e.GetRecommendations(context.Background(), "gimbap", 3)
	if recs == nil || len(recs) != 0 {
		t.Errorf("GetRecommendations() = %v, want empty", recs)
	}
}

func TestEngine_RequestTimeout(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()...)
	store.findOneBlocks = true
	e := newTestEngine(t, store, func(c *Config) { c.Limits.RequestTimeout = 20 * time.Millisecond })

	start := time.Now()
	recs := e.GetRecommendations(context.Background(), "gimbap", 3)
	if len(recs) != 0 {
		t.Errorf("GetRecommendations() = %v, want empty on timeout", recIDs(recs))
	}
	if time.Since(start) > 2*time.Second {
		t.Errorf("request took %v, timeout not applied", time.Since(start))
	}
}

func TestEngine_ResponseCache(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()...)
	e := newTestEngine(t, store, nil)
	layer := cache.NewLayer(cache.NewMemoryBackend(0), time.Minute, zerolog.Nop())
	e.SetResponseCache(layer)
	ctx := context.Background()

	first := e.GetRecommendations(ctx, "gimbap", 2)
	if len(first) != 2 {
		t.Fatalf("first = %v", recIDs(first))
	}

	// A stored list would change the answer, but the cached response wins until invalidation.
	updated := koreanTable()[2]
	updated.SimilarFoods = catalog.SimilarFoods{"taste": {{ID: "kimchi-jjigae", Similarity: 0.5}}}
	if err := store.Upsert(ctx, updated); err != nil {
		t.Fatal(err)
	}

	second := e.GetRecommendations(ctx, "gimbap", 2)
	if len(second) != 2 || second[0].ID != first[0].ID || second[0].Criterion != CriterionComposite {
		t.Errorf("second = %+v, want cached %+v", second, first)
	}
	if second[0].Details[CriterionTaste] != first[0].Details[CriterionTaste] {
		t.Errorf("cached details lost: %v vs %v", second[0].Details, first[0].Details)
	}

	gen := e.Stats().IndexGeneration
	if _, err := e.RecomputeAll(ctx); err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}

	var stale []Recommendation
	if layer.Get(ctx, ResponseCacheKey(gen, "gimbap", criterionAll, 2), &stale) {
		t.Errorf("response cache still holds %v after recompute", recIDs(stale))
	}

	third := e.GetRecommendations(ctx, "gimbap", 2)
	if len(third) == 0 || third[0].Criterion == CriterionComposite {
		t.Errorf("third = %+v, want precomputed entries", third)
	}
}

func TestEngine_ResponseCacheIgnoresOlderGeneration(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()...)
	e := newTestEngine(t, store, nil)
	layer := cache.NewLayer(cache.NewMemoryBackend(0), time.Minute, zerolog.Nop())
	e.SetResponseCache(layer)
	ctx := context.Background()

	live := e.GetRecommendations(ctx, "gimbap", 2)
	if len(live) == 0 || live[0].Criterion != CriterionComposite {
		t.Fatalf("live = %+v, want composite entries", live)
	}
	gen := e.Stats().IndexGeneration

	if _, err := e.RecomputeAll(ctx); err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}
	if e.Stats().IndexGeneration == gen {
		t.Fatal("recompute did not advance the index generation")
	}

	// a read that started before the pass finishes its write after invalidation
	layer.Set(ctx, ResponseCacheKey(gen, "gimbap", criterionAll, 2), live, time.Minute)

	got := e.GetRecommendations(ctx, "gimbap", 2)
	if len(got) == 0 || got[0].Criterion == CriterionComposite {
		t.Errorf("got = %+v, want precomputed entries, not the late pre-recompute response", got)
	}
}

func TestEngine_Refresh(t *testing.T) {
	t.Parallel()

	store := newFakeStore(koreanTable()[:2]...)
	e := newTestEngine(t, store, nil)
	ctx := context.Background()

	if err := e.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	before := e.Stats()

	if err := store.Upsert(ctx, koreanTable()[2]); err != nil {
		t.Fatal(err)
	}
	if err := e.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	after := e.Stats()

	if before.IndexItems != 2 || after.IndexItems != 3 {
		t.Errorf("IndexItems = %d -> %d, want 2 -> 3", before.IndexItems, after.IndexItems)
	}
	if after.IndexGeneration <= before.IndexGeneration {
		t.Errorf("generation did not advance: %d -> %d", before.IndexGeneration, after.IndexGeneration)
	}

	store.findAllFails.Store(1)
	if err := e.Refresh(ctx); !errors.Is(err, catalog.ErrUnavailable) {
		t.Errorf("Refresh() error = %v, want ErrUnavailable", err)
	}
	if e.Stats().IndexItems != 3 {
		t.Error("failed refresh replaced the index")
	}
}
