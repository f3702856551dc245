// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
)

// Criterion names one similarity dimension.
type Criterion string

const (
	CriterionTaste      Criterion = catalog.CriterionTaste
	CriterionIngredient Criterion = catalog.CriterionIngredient
	CriterionCooking    Criterion = catalog.CriterionCooking
	CriterionRegion     Criterion = "region"
	CriterionComposite  Criterion = "composite"

	// criterionAll keys merged multi-criterion responses in the response cache.
	criterionAll Criterion = "all"
)

// ErrInvalidCriterion is returned for criterion names the engine does not support.
var ErrInvalidCriterion = errors.New("recommend: invalid criterion")

// PrecomputedCriteria are the criteria materialized into similarFoods, in merge order.
var PrecomputedCriteria = []Criterion{CriterionTaste, CriterionIngredient, CriterionCooking}

// ParseCriterion parses a single-criterion name (taste, ingredient, cooking or region).
func ParseCriterion(s string) (Criterion, error) {
	c := Criterion(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CriterionTaste, CriterionIngredient, CriterionCooking, CriterionRegion:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCriterion, s)
	}
}

// ParseBatchCriterion is ParseCriterion plus "composite".
func ParseBatchCriterion(s string) (Criterion, error) {
	if Criterion(strings.ToLower(strings.TrimSpace(s))) == CriterionComposite {
		return CriterionComposite, nil
	}
	return ParseCriterion(s)
}

// String implements fmt.Stringer.
func (c Criterion) String() string { return string(c) }
