// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// Key prefix for BadgerDB storage
const dishKeyPrefix = "dish:"

// BadgerStore implements Store on an embedded BadgerDB. Each dish is one JSON value under
// "dish:<id>", so prefix iteration returns items in id order.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore creates a Badger-backed catalog store. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadger opens a BadgerDB at path, or an in-memory instance when path is empty.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// FindOne implements Store.
func (s *BadgerStore) FindOne(ctx context.Context, id string) (*Item, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, unavailable(err)
	}

	var item Item
	err := s.db.View(func(txn *badger.Txn) error {
		return getItem(txn, id, &item)
	})
	metrics.RecordStoreOperation("badger", "find_one", time.Since(start), ignoreNotFound(err))
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAll implements Store.
func (s *BadgerStore) FindAll(ctx context.Context, filter Filter) ([]*Item, error) {
	start := time.Now()
	var items []*Item

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(dishKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return unavailable(err)
			}

			var item Item
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}

			if !filter.Matches(&item) {
				continue
			}
			items = append(items, &item)
			if filter.Limit > 0 && len(items) >= filter.Limit {
				break
			}
		}
		return nil
	})
	metrics.RecordStoreOperation("badger", "find_all", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateSimilarFoods implements Store. The read-compare-write runs in a single transaction.
func (s *BadgerStore) UpdateSimilarFoods(ctx context.Context, id string, sf SimilarFoods) (int64, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return 0, unavailable(err)
	}

	var modified int64
	err := s.db.Update(func(txn *badger.Txn) error {
		var item Item
		if err := getItem(txn, id, &item); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return err
		}
		if item.SimilarFoods.Equal(sf) {
			return nil
		}

		item.SimilarFoods = sf
		if err := putItem(txn, &item); err != nil {
			return err
		}
		modified = 1
		return nil
	})
	metrics.RecordStoreOperation("badger", "update_similar_foods", time.Since(start), err)
	if err != nil {
		return 0, err
	}
	return modified, nil
}

// Upsert implements Store.
func (s *BadgerStore) Upsert(ctx context.Context, item *Item) error {
	if err := ctx.Err(); err != nil {
		return unavailable(err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return putItem(txn, item)
	})
}

// Count implements Store.
func (s *BadgerStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(dishKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return unavailable(err)
			}
			n++
		}
		return nil
	})
	return n, err
}

func getItem(txn *badger.Txn, id string, dst *Item) error {
	entry, err := txn.Get([]byte(dishKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get dish %s: %w", id, err)
	}
	return entry.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func putItem(txn *badger.Txn, item *Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal dish %s: %w", item.ID, err)
	}
	if err := txn.Set([]byte(dishKeyPrefix+item.ID), data); err != nil {
		return fmt.Errorf("set dish %s: %w", item.ID, err)
	}
	return nil
}
