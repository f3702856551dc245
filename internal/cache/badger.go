// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerBackend is a Backend over an embedded BadgerDB. Expiry uses Badger's native entry TTL.
type BadgerBackend struct {
	db *badger.DB
}

// NewBadgerBackend wraps db. The caller owns db and closes it.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// Name implements Backend.
func (b *BadgerBackend) Name() string { return string(KindBadger) }

// Get implements Backend.
func (b *BadgerBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger get %s: %w", key, err)
	}
	return val, true, nil
}

// Set implements Backend.
func (b *BadgerBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		if err := txn.SetEntry(entry); err != nil {
			return fmt.Errorf("badger set %s: %w", key, err)
		}
		return nil
	})
}

// Delete implements Backend.
func (b *BadgerBackend) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DeletePrefix implements Backend. Keys are counted first so the caller gets a removal count;
// DropPrefix then removes them in one call.
func (b *BadgerBackend) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	p := []byte(prefix)
	count := 0

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("badger scan %s: %w", prefix, err)
	}
	if count == 0 {
		return 0, nil
	}

	if len(p) == 0 {
		err = b.db.DropAll()
	} else {
		err = b.db.DropPrefix(p)
	}
	if err != nil {
		return 0, fmt.Errorf("badger drop prefix %s: %w", prefix, err)
	}
	return count, nil
}

// Close implements Backend. The database itself is closed by its owner.
func (b *BadgerBackend) Close() error { return nil }
