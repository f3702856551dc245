// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"time"

	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
)

// Index is an immutable snapshot of vectorized catalog items. Readers share it without locking;
// a refresh builds a new Index and swaps the engine's pointer.
type Index struct {
	generation uint64
	builtAt    time.Time
	items      []*Attributes // catalog iteration order
	byID       map[string]*Attributes
}

// NewIndex vectorizes items in the given order. Later duplicates of an ID are ignored.
func NewIndex(items []*catalog.Item, generation uint64) *Index {
	ix := &Index{
		generation: generation,
		builtAt:    time.Now(),
		items:      make([]*Attributes, 0, len(items)),
		byID:       make(map[string]*Attributes, len(items)),
	}
	for _, item := range items {
		if item == nil || item.ID == "" {
			continue
		}
		if _, dup := ix.byID[item.ID]; dup {
			continue
		}
		a := Vectorize(item)
		ix.items = append(ix.items, a)
		ix.byID[item.ID] = a
	}
	return ix
}

// Get returns the attributes for id.
func (ix *Index) Get(id string) (*Attributes, bool) {
	a, ok := ix.byID[id]
	return a, ok
}

// Items returns all attributes in catalog order. The slice must not be modified.
func (ix *Index) Items() []*Attributes { return ix.items }

// Len returns the number of indexed items.
func (ix *Index) Len() int { return len(ix.items) }

// Generation identifies this snapshot. It increases with every rebuild.
func (ix *Index) Generation() uint64 { return ix.generation }

// BuiltAt returns when the snapshot was built.
func (ix *Index) BuiltAt() time.Time { return ix.builtAt }
