// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const seedJSON = `[
  {"dishId": "0", "nameKo": "김밥", "nameEn": "Gimbap",
   "taste": {"spiciness": 0, "sweetness": 1, "saltiness": 3, "sourness": 0, "umami": 4},
   "ingredients": {"main": ["쌀", "김"]},
   "cookingMethod": {"primary": "말기"},
   "region": {"origin": "서울", "traditional": false}},
  {"dishId": "2", "nameKo": "비빔밥", "nameEn": "Bibimbap",
   "taste": {"saltiness": 2, "umami": 3},
   "region": {"origin": "전주", "traditional": true}}
]`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dishes.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	items, err := LoadSeedFile(writeSeed(t, seedJSON))
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("LoadSeedFile() returned %d items, want 2", len(items))
	}
	if items[1].NameEn != "Bibimbap" || !items[1].Region.Traditional || items[1].Taste.Umami != 3 {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestLoadSeedFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.json") }},
		{name: "invalid json", path: func(t *testing.T) string { return writeSeed(t, `{"dishId":`) }},
		{name: "item without id", path: func(t *testing.T) string { return writeSeed(t, `[{"nameKo": "김밥"}]`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSeedFile(tt.path(t)); err == nil {
				t.Error("LoadSeedFile() expected error")
			}
		})
	}
}

func TestSeed(t *testing.T) {
	t.Parallel()

	items, err := LoadSeedFile(writeSeed(t, seedJSON))
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}

	store := NewMemoryStore()
	ctx := context.Background()

	n, err := Seed(ctx, store, items, zerolog.Nop())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Seed() = %d, want 2", n)
	}

	// A populated store is left alone.
	n, err = Seed(ctx, store, []*Item{dish("9", "떡볶이", "서울")}, zerolog.Nop())
	if err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second Seed() = %d, want 0", n)
	}
	if count, _ := store.Count(ctx); count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}
}
