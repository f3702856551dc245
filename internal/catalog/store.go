// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotFound is returned when a dish id is not in the catalog.
	ErrNotFound = errors.New("catalog: item not found")

	// ErrUnavailable wraps connectivity, timeout and cancellation failures of the backing store.
	ErrUnavailable = errors.New("catalog: store unavailable")
)

// Store is the read/write contract the recommendation engine needs from the catalog.
type Store interface {
	// FindOne returns the item with the given id or ErrNotFound.
	FindOne(ctx context.Context, id string) (*Item, error)

	// FindAll returns the items matching filter, ordered by id.
	FindAll(ctx context.Context, filter Filter) ([]*Item, error)

	// UpdateSimilarFoods replaces the similarFoods field of one item and returns the number of
	// items actually modified (0 when the stored value already matched).
	UpdateSimilarFoods(ctx context.Context, id string, sf SimilarFoods) (int64, error)

	// Upsert inserts or replaces a whole item.
	Upsert(ctx context.Context, item *Item) error

	// Count returns the number of items in the catalog.
	Count(ctx context.Context) (int64, error)
}

// Filter narrows FindAll. The zero value matches every item.
type Filter struct {
	IDs    []string
	Origin string
	Limit  int
}

// Matches reports whether item passes the id and origin conditions. Limit is applied by the
// store after ordering.
func (f Filter) Matches(item *Item) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, item.ID) {
		return false
	}
	if f.Origin != "" && item.Region.Origin != f.Origin {
		return false
	}
	return true
}

// unavailable maps context errors to ErrUnavailable, leaving other errors untouched.
func unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}
