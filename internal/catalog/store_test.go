// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"errors"
	"testing"
)

func gimbap() *Item {
	return &Item{
		ID:       "0",
		NameKo:   "김밥",
		NameEn:   "Gimbap",
		Category: "Rice Dishes",
		Taste: Taste{
			Sweetness: 1, Saltiness: 3, Umami: 4,
			Profile: []string{"고소한", "담백한", "깔끔한"},
		},
		Ingredients: Ingredients{
			Main:  []string{"쌀", "김", "시금치", "당근", "단무지"},
			Sub:   []string{"계란", "어묵", "우엉"},
			Sauce: []string{"참기름", "소금", "설탕", "식초"},
		},
		CookingMethod: CookingMethod{Primary: "말기", Secondary: []string{"삶기", "볶기", "썰기"}},
		Region:        Region{Origin: "서울", Popular: []string{"전국"}},
	}
}

func dish(id, name, origin string) *Item {
	return &Item{ID: id, NameKo: name, Region: Region{Origin: origin}}
}

// storeContract runs the behaviour every Store implementation must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	for _, it := range []*Item{gimbap(), dish("2", "비빔밥", "전주"), dish("1", "라면", "서울")} {
		if err := store.Upsert(ctx, it); err != nil {
			t.Fatalf("Upsert(%s) error = %v", it.ID, err)
		}
	}

	t.Run("find one", func(t *testing.T) {
		got, err := store.FindOne(ctx, "0")
		if err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
		if got.NameKo != "김밥" || got.Taste.Umami != 4 || len(got.Ingredients.Main) != 5 {
			t.Errorf("FindOne() = %+v, fields not preserved", got)
		}
	})

	t.Run("find one missing", func(t *testing.T) {
		_, err := store.FindOne(ctx, "404")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("FindOne(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("find all ordered by id", func(t *testing.T) {
		items, err := store.FindAll(ctx, Filter{})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		want := []string{"0", "1", "2"}
		if len(items) != len(want) {
			t.Fatalf("FindAll() returned %d items, want %d", len(items), len(want))
		}
		for i, id := range want {
			if items[i].ID != id {
				t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, id)
			}
		}
	})

	t.Run("find all filtered", func(t *testing.T) {
		items, err := store.FindAll(ctx, Filter{Origin: "서울"})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(items) != 2 {
			t.Errorf("FindAll(origin) returned %d items, want 2", len(items))
		}

		items, err = store.FindAll(ctx, Filter{IDs: []string{"2", "1"}, Limit: 1})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(items) != 1 || items[0].ID != "1" {
			t.Errorf("FindAll(ids, limit) = %v, want [1]", ids(items))
		}
	})

	t.Run("update similar foods only when changed", func(t *testing.T) {
		sf := threeCriteria()

		n, err := store.UpdateSimilarFoods(ctx, "0", sf)
		if err != nil {
			t.Fatalf("UpdateSimilarFoods() error = %v", err)
		}
		if n != 1 {
			t.Errorf("first update modified = %d, want 1", n)
		}

		for i := 0; i < 10; i++ {
			n, err = store.UpdateSimilarFoods(ctx, "0", threeCriteria())
			if err != nil {
				t.Fatalf("UpdateSimilarFoods() error = %v", err)
			}
			if n != 0 {
				t.Fatalf("identical update %d modified = %d, want 0", i, n)
			}
		}

		got, err := store.FindOne(ctx, "0")
		if err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
		if !got.SimilarFoods.Equal(sf) {
			t.Errorf("stored similarFoods = %v, want %v", got.SimilarFoods, sf)
		}
		if got.NameKo != "김밥" {
			t.Error("update must not touch other fields")
		}

		changed := threeCriteria()
		changed[CriterionCooking] = nil
		n, err = store.UpdateSimilarFoods(ctx, "0", changed)
		if err != nil {
			t.Fatalf("UpdateSimilarFoods() error = %v", err)
		}
		if n != 1 {
			t.Errorf("changed update modified = %d, want 1", n)
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 3 {
			t.Errorf("Count() = %d, want 3", n)
		}
	})
}

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
