// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import "math"

// Jaccard returns |A∩B| / |A∪B| for two sorted, duplicate-free sets, or 0 if either is empty.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	inter := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			inter++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}

	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// TasteSimilarity is the cosine of two normalized taste vectors, averaged with the tag Jaccard
// when both sides carry descriptive tags. A zero vector contributes a cosine of 0.
func TasteSimilarity(a, b TasteVector, tagsA, tagsB []string) float64 {
	var cosine float64
	if !a.IsZero() && !b.IsZero() {
		cosine = clamp01(a.Dot(b))
	}

	if len(tagsA) > 0 && len(tagsB) > 0 {
		return (cosine + Jaccard(tagsA, tagsB)) / 2
	}
	return cosine
}

// IngredientSimilarity is the Jaccard index of two ingredient sets.
func IngredientSimilarity(a, b []string) float64 {
	return Jaccard(a, b)
}

// CookingMode selects how cooking methods are compared.
type CookingMode string

const (
	// CookingModeProfile scores 1 for the same primary technique, otherwise blends time (0.4)
	// and difficulty (0.6) similarity. With no time or difficulty on either side it falls back
	// to CookingModeTechniques.
	CookingModeProfile CookingMode = "profile"

	// CookingModeTechniques scores the Jaccard index of primary plus secondary techniques.
	CookingModeTechniques CookingMode = "techniques"
)

const (
	cookingTimeWeight       = 0.4
	cookingDifficultyWeight = 0.6
	maxDifficulty           = 5.0
)

// CookingSimilarity compares two cooking profiles.
func CookingSimilarity(a, b CookingProfile, mode CookingMode) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return 0
	}
	if a.Primary != "" && a.Primary == b.Primary {
		return 1
	}
	if mode == CookingModeTechniques || (!a.hasMeasures() && !b.hasMeasures()) {
		return Jaccard(a.Techniques, b.Techniques)
	}

	var timeSim float64
	if a.Time > 0 && b.Time > 0 {
		timeSim = 1 - math.Abs(a.Time-b.Time)/math.Max(a.Time, b.Time)
	}
	diffSim := clamp01(1 - math.Abs(a.Difficulty-b.Difficulty)/maxDifficulty)

	return cookingTimeWeight*timeSim + cookingDifficultyWeight*diffSim
}

func (p CookingProfile) hasMeasures() bool {
	return p.Time > 0 || p.Difficulty > 0
}

const (
	regionOriginBonus      = 0.5
	regionPopularWeight    = 0.3
	regionTraditionalBonus = 0.2
)

// RegionSimilarity adds 0.5 for the same origin, 0.3 times the Jaccard of popular locales and
// 0.2 when the traditional flags match, capped at 1.
func RegionSimilarity(a, b RegionProfile) float64 {
	var score float64
	if a.Origin != "" && a.Origin == b.Origin {
		score += regionOriginBonus
	}
	score += regionPopularWeight * Jaccard(a.Popular, b.Popular)
	if a.Traditional == b.Traditional {
		score += regionTraditionalBonus
	}
	return math.Min(score, 1)
}

// Scores holds one value per criterion.
type Scores struct {
	Taste      float64 `json:"taste"`
	Ingredient float64 `json:"ingredient"`
	Cooking    float64 `json:"cooking"`
	Region     float64 `json:"region"`
}

// Get returns the score for a single criterion.
func (s Scores) Get(c Criterion) float64 {
	switch c {
	case CriterionTaste:
		return s.Taste
	case CriterionIngredient:
		return s.Ingredient
	case CriterionCooking:
		return s.Cooking
	case CriterionRegion:
		return s.Region
	default:
		return 0
	}
}

// CompositeSimilarity is the weighted sum of the per-criterion scores. With non-negative weights
// it never decreases when any single score increases.
func CompositeSimilarity(s Scores, w Weights) float64 {
	return w.Taste*s.Taste + w.Ingredient*s.Ingredient + w.Cooking*s.Cooking + w.Region*s.Region
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
