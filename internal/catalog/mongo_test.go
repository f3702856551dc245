// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"bytes"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func threeCriteria() SimilarFoods {
	return SimilarFoods{
		CriterionCooking:    {{ID: "5", Name: "떡볶이", Similarity: 0.5}},
		CriterionTaste:      {{ID: "2", Name: "비빔밥", Similarity: 0.99}, {ID: "3", Name: "김치찌개", Similarity: 0.8}},
		CriterionIngredient: {{ID: "4", Name: "불고기", Similarity: 0.42}},
	}
}

func TestSimilarFoods_MarshalBSONValueIsStable(t *testing.T) {
	t.Parallel()

	sf := threeCriteria()
	first, err := bson.Marshal(bson.M{"similarFoods": sf})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for i := 0; i < 200; i++ {
		got, err := bson.Marshal(bson.M{"similarFoods": sf})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if !bytes.Equal(got, first) {
			t.Fatalf("encoding %d differs from the first", i)
		}
	}
}

func TestSimilarFoods_MarshalBSONValueOrder(t *testing.T) {
	t.Parallel()

	sf := threeCriteria()
	sf["region"] = nil
	sf["aaa"] = []SimilarEntry{{ID: "9", Similarity: 0.1}}

	data, err := bson.Marshal(bson.M{"similarFoods": sf})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	elems, err := bson.Raw(data).Lookup("similarFoods").Document().Elements()
	if err != nil {
		t.Fatalf("Elements() error = %v", err)
	}

	want := []string{CriterionTaste, CriterionIngredient, CriterionCooking, "aaa", "region"}
	if len(elems) != len(want) {
		t.Fatalf("encoded %d criteria, want %d", len(elems), len(want))
	}
	for i, key := range want {
		if elems[i].Key() != key {
			t.Errorf("field %d = %q, want %q", i, elems[i].Key(), key)
		}
	}
}

func TestSimilarFoods_BSONRoundTrip(t *testing.T) {
	t.Parallel()

	item := gimbap()
	item.SimilarFoods = threeCriteria()

	data, err := bson.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var got Item
	if err := bson.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.SimilarFoods.Equal(item.SimilarFoods) {
		t.Errorf("SimilarFoods = %v, want %v", got.SimilarFoods, item.SimilarFoods)
	}

	item.SimilarFoods = nil
	data, err = bson.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if _, err := bson.Raw(data).LookupErr("similarFoods"); err == nil {
		t.Error("nil similarFoods was encoded, want it omitted")
	}
}
