// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadgerBackend(t *testing.T) *BadgerBackend {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewBadgerBackend(db)
}

func TestBadgerBackend(t *testing.T) {
	t.Parallel()
	backendContract(t, newTestBadgerBackend(t))
}

func TestBadgerBackend_TTL(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping TTL wait in short mode")
	}

	b := newTestBadgerBackend(t)
	ctx := context.Background()

	// Badger TTLs have one-second resolution.
	if err := b.Set(ctx, "short", []byte(`1`), 2*time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, found, _ := b.Get(ctx, "short"); !found {
		t.Fatal("key missing before expiry")
	}

	time.Sleep(3100 * time.Millisecond)

	if _, found, _ := b.Get(ctx, "short"); found {
		t.Error("key returned after TTL")
	}
}

func TestBadgerBackend_DeleteAll(t *testing.T) {
	t.Parallel()

	b := newTestBadgerBackend(t)
	ctx := context.Background()
	_ = b.Set(ctx, "a", []byte(`1`), 0)
	_ = b.Set(ctx, "b", []byte(`2`), 0)

	n, err := b.DeletePrefix(ctx, "")
	if err != nil {
		t.Fatalf("DeletePrefix(\"\") error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeletePrefix(\"\") = %d, want 2", n)
	}
}
