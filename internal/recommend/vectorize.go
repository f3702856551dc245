// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"math"
	"slices"

	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
)

// TasteDims is the number of taste dimensions.
const TasteDims = 5

// TasteVector holds spiciness, sweetness, saltiness, sourness and umami, in that order.
// Vectors produced by Vectorize are L2-normalized or all zero.
type TasteVector [TasteDims]float64

// IsZero reports whether every component is zero.
func (v TasteVector) IsZero() bool {
	return v == TasteVector{}
}

// Dot returns the dot product.
func (v TasteVector) Dot(o TasteVector) float64 {
	var sum float64
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// CookingProfile is the comparable part of a cooking method.
type CookingProfile struct {
	Primary    string
	Techniques []string // primary plus secondary, sorted and deduplicated
	Time       float64
	Difficulty float64
}

// IsEmpty reports whether nothing is known about the cooking method.
func (p CookingProfile) IsEmpty() bool {
	return p.Primary == "" && len(p.Techniques) == 0 && p.Time == 0 && p.Difficulty == 0
}

// RegionProfile is the comparable part of a region.
type RegionProfile struct {
	Origin      string
	Popular     []string // sorted and deduplicated
	Traditional bool
}

// Attributes is the vectorized form of a catalog item. It is immutable once built.
type Attributes struct {
	ID          string
	NameKo      string
	NameEn      string
	Category    string
	Taste       TasteVector
	TasteTags   []string // sorted and deduplicated
	Ingredients []string // union of main, sub and sauce; sorted and deduplicated
	Cooking     CookingProfile
	Region      RegionProfile
}

// Vectorize derives the comparable attributes of an item. Missing sub-fields become zero or
// empty values. The output depends only on the input.
func Vectorize(item *catalog.Item) *Attributes {
	return &Attributes{
		ID:          item.ID,
		NameKo:      item.NameKo,
		NameEn:      item.NameEn,
		Category:    item.Category,
		Taste:       tasteVector(item.Taste),
		TasteTags:   stringSet(item.Taste.Profile),
		Ingredients: stringSet(item.Ingredients.Main, item.Ingredients.Sub, item.Ingredients.Sauce),
		Cooking: CookingProfile{
			Primary:    item.CookingMethod.Primary,
			Techniques: stringSet([]string{item.CookingMethod.Primary}, item.CookingMethod.Secondary),
			Time:       item.CookingMethod.Time,
			Difficulty: item.CookingMethod.Difficulty,
		},
		Region: RegionProfile{
			Origin:      item.Region.Origin,
			Popular:     stringSet(item.Region.Popular),
			Traditional: item.Region.Traditional,
		},
	}
}

// DisplayName prefers the Korean name.
func (a *Attributes) DisplayName() string {
	if a.NameKo != "" {
		return a.NameKo
	}
	return a.NameEn
}

func tasteVector(t catalog.Taste) TasteVector {
	v := TasteVector{t.Spiciness, t.Sweetness, t.Saltiness, t.Sourness, t.Umami}

	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return TasteVector{}
	}

	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// stringSet merges lists into a sorted set. Empty strings are dropped; case is preserved.
func stringSet(lists ...[]string) []string {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}

	out := make([]string, 0, n)
	for _, l := range lists {
		for _, s := range l {
			if s != "" {
				out = append(out, s)
			}
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
