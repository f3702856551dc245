// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestLRU_BasicOperations(t *testing.T) {
	c := NewLRU[string, int](3)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, found := c.Get(key)
		if !found {
			t.Errorf("Expected to find key %q", key)
		}
		if got != want {
			t.Errorf("Get(%q) = %d, want %d", key, got, want)
		}
	}

	if c.Len() != 3 {
		t.Errorf("Expected len 3, got %d", c.Len())
	}
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](3)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	// Access 'a' so 'b' becomes least recently used
	c.Get("a")
	c.Add("d", 4)

	if _, found := c.Get("b"); found {
		t.Error("Expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, found := c.Get(key); !found {
			t.Errorf("Expected %q to be present", key)
		}
	}
	if got := c.Stats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Add("a", 1)
	c.Add("b", 2)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("Remove(a) twice = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}

	// List must still be usable after Clear
	c.Add("x", 9)
	if v, ok := c.Get("x"); !ok || v != 9 {
		t.Errorf("Get(x) after Clear = (%d, %v)", v, ok)
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("a", 10) // refreshes 'a'
	c.Add("c", 3)  // evicts 'b'

	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d, want 10", v)
	}
	if c.Contains("b") {
		t.Error("Expected 'b' to be evicted")
	}
}

func TestLRU_Stats(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Add("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Size != 1 || stats.Capacity != 10 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](100)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", (g*500+i)%150)
				c.Add(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() > 100 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}
