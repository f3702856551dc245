// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import "slices"

// Criterion names used as keys of the similarFoods field.
const (
	CriterionTaste      = "taste"
	CriterionIngredient = "ingredient"
	CriterionCooking    = "cooking"
)

// Item is one dish in the catalog.
type Item struct {
	ID            string        `json:"dishId" bson:"dishId" validate:"required"`
	NameKo        string        `json:"nameKo" bson:"nameKo" validate:"required"`
	NameEn        string        `json:"nameEn,omitempty" bson:"nameEn,omitempty"`
	Category      string        `json:"className,omitempty" bson:"className,omitempty"`
	Taste         Taste         `json:"taste" bson:"taste"`
	Ingredients   Ingredients   `json:"ingredients" bson:"ingredients"`
	CookingMethod CookingMethod `json:"cookingMethod" bson:"cookingMethod"`
	Region        Region        `json:"region" bson:"region"`
	SimilarFoods  SimilarFoods  `json:"similarFoods,omitempty" bson:"similarFoods,omitempty"`
}

// Taste holds intensities on a 0..5 scale plus descriptive tags.
type Taste struct {
	Spiciness float64  `json:"spiciness" bson:"spiciness" validate:"gte=0,lte=5"`
	Sweetness float64  `json:"sweetness" bson:"sweetness" validate:"gte=0,lte=5"`
	Saltiness float64  `json:"saltiness" bson:"saltiness" validate:"gte=0,lte=5"`
	Sourness  float64  `json:"sourness" bson:"sourness" validate:"gte=0,lte=5"`
	Umami     float64  `json:"umami" bson:"umami" validate:"gte=0,lte=5"`
	Profile   []string `json:"profile,omitempty" bson:"profile,omitempty"`
}

// Ingredients groups ingredient names by role.
type Ingredients struct {
	Main  []string `json:"main,omitempty" bson:"main,omitempty"`
	Sub   []string `json:"sub,omitempty" bson:"sub,omitempty"`
	Sauce []string `json:"sauce,omitempty" bson:"sauce,omitempty"`
}

// CookingMethod describes how a dish is prepared. Time is in minutes; zero means unknown.
type CookingMethod struct {
	Primary    string   `json:"primary" bson:"primary"`
	Secondary  []string `json:"secondary,omitempty" bson:"secondary,omitempty"`
	Time       float64  `json:"time,omitempty" bson:"time,omitempty" validate:"gte=0"`
	Difficulty float64  `json:"difficulty,omitempty" bson:"difficulty,omitempty" validate:"gte=0,lte=5"`
}

// Region describes where a dish comes from and where it is eaten.
type Region struct {
	Origin      string   `json:"origin" bson:"origin"`
	Popular     []string `json:"popular,omitempty" bson:"popular,omitempty"`
	Traditional bool     `json:"traditional" bson:"traditional"`
}

// SimilarEntry is one precomputed neighbour.
type SimilarEntry struct {
	ID         string  `json:"dishId" bson:"dishId"`
	Name       string  `json:"name,omitempty" bson:"name,omitempty"`
	Similarity float64 `json:"similarity" bson:"similarity"`
}

// SimilarFoods maps a criterion name to its neighbours, sorted by descending similarity.
type SimilarFoods map[string][]SimilarEntry

// HasSimilarFoods reports whether any criterion has at least one precomputed neighbour.
func (it *Item) HasSimilarFoods() bool {
	for _, entries := range it.SimilarFoods {
		if len(entries) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate the result without touching store state.
func (it *Item) Clone() *Item {
	if it == nil {
		return nil
	}
	c := *it
	c.Taste.Profile = slices.Clone(it.Taste.Profile)
	c.Ingredients.Main = slices.Clone(it.Ingredients.Main)
	c.Ingredients.Sub = slices.Clone(it.Ingredients.Sub)
	c.Ingredients.Sauce = slices.Clone(it.Ingredients.Sauce)
	c.CookingMethod.Secondary = slices.Clone(it.CookingMethod.Secondary)
	c.Region.Popular = slices.Clone(it.Region.Popular)
	c.SimilarFoods = it.SimilarFoods.Clone()
	return &c
}

// DisplayName prefers the Korean name and falls back to the English one.
func (it *Item) DisplayName() string {
	if it.NameKo != "" {
		return it.NameKo
	}
	return it.NameEn
}

// Clone returns a deep copy.
func (sf SimilarFoods) Clone() SimilarFoods {
	if sf == nil {
		return nil
	}
	out := make(SimilarFoods, len(sf))
	for k, v := range sf {
		out[k] = slices.Clone(v)
	}
	return out
}

// Equal compares two values criterion by criterion. An empty list and a missing criterion are
// treated as the same thing.
func (sf SimilarFoods) Equal(other SimilarFoods) bool {
	for k, v := range sf {
		if !slices.Equal(v, other[k]) {
			return false
		}
	}
	for k, v := range other {
		if _, ok := sf[k]; !ok && len(v) > 0 {
			return false
		}
	}
	return true
}
