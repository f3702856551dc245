// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"testing"

	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
)

func TestNewIndex(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]*catalog.Item{
		{ID: "b", NameKo: "비빔밥"},
		{ID: "a", NameKo: "김밥"},
		{ID: "b", NameKo: "중복"},
		{ID: ""},
		nil,
	}, 7)

	if ix.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ix.Len())
	}
	if ix.Items()[0].ID != "b" || ix.Items()[1].ID != "a" {
		t.Errorf("Items() order = %s,%s, want input order b,a", ix.Items()[0].ID, ix.Items()[1].ID)
	}
	if a, ok := ix.Get("b"); !ok || a.NameKo != "비빔밥" {
		t.Errorf("Get(b) = %+v, %v; first occurrence should win", a, ok)
	}
	if _, ok := ix.Get("missing"); ok {
		t.Error("Get(missing) reported found")
	}
	if ix.Generation() != 7 || ix.BuiltAt().IsZero() {
		t.Errorf("Generation() = %d, BuiltAt() = %v", ix.Generation(), ix.BuiltAt())
	}
}
