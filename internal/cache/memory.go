// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Stats tracks cache performance metrics
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// MemoryBackend is an in-process Backend with lazy expiration plus a periodic sweep.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	statsMu sync.Mutex
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryBackend creates a memory backend. When cleanupInterval is positive a background
// goroutine sweeps expired keys until Close is called.
func NewMemoryBackend(cleanupInterval time.Duration) *MemoryBackend {
	m := &MemoryBackend{
		entries: make(map[string]memoryEntry),
		stats:   Stats{LastCleanup: time.Now()},
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

// Name implements Backend.
func (m *MemoryBackend) Name() string { return string(KindMemory) }

// Get implements Backend.
func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		m.record(func(s *Stats) { s.Misses++ })
		return nil, false, nil
	}

	if entry.expired(time.Now()) {
		m.mu.Lock()
		// re-check: a concurrent Set may have refreshed the key
		if cur, ok := m.entries[key]; ok && cur.expired(time.Now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		m.record(func(s *Stats) { s.Misses++; s.Evictions++ })
		return nil, false, nil
	}

	m.record(func(s *Stats) { s.Hits++ })
	return entry.data, true, nil
}

// Set implements Backend. The value is copied.
func (m *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{data: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	n := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) { s.TotalKeys = int64(n) })
	return nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	n := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) { s.Evictions++; s.TotalKeys = int64(n) })
	return nil
}

// DeletePrefix implements Backend.
func (m *MemoryBackend) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	removed := 0
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
			removed++
		}
	}
	n := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) { s.Evictions += int64(removed); s.TotalKeys = int64(n) })
	return removed, nil
}

// Close stops the cleanup goroutine.
func (m *MemoryBackend) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

// Len returns the number of stored keys, including expired ones not yet swept.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// GetStats returns a snapshot of current cache statistics.
func (m *MemoryBackend) GetStats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// HitRate returns the cache hit rate as a percentage
func (m *MemoryBackend) HitRate() float64 {
	stats := m.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

func (m *MemoryBackend) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

// cleanup removes all expired entries
func (m *MemoryBackend) cleanup() {
	now := time.Now()

	m.mu.Lock()
	evictions := int64(0)
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			evictions++
		}
	}
	n := len(m.entries)
	m.mu.Unlock()

	m.record(func(s *Stats) {
		s.Evictions += evictions
		s.TotalKeys = int64(n)
		s.LastCleanup = now
	})
}

func (m *MemoryBackend) record(fn func(*Stats)) {
	m.statsMu.Lock()
	fn(&m.stats)
	m.statsMu.Unlock()
}
