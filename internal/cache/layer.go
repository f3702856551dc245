// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// Wildcard marks a prefix pattern in Invalidate: "recommend:*" removes every key starting with
// "recommend:".
const Wildcard = "*"

// Layer is a JSON-valued cache over a Backend. It never surfaces backend failures to callers:
// Get degrades to a miss, Set and Invalidate log and return false. A nil *Layer is a valid,
// permanently empty cache.
type Layer struct {
	backend    Backend
	defaultTTL time.Duration
	logger     zerolog.Logger
	group      singleflight.Group
}

// NewLayer creates a Layer. defaultTTL applies when Set is called with ttl <= 0.
func NewLayer(backend Backend, defaultTTL time.Duration, logger zerolog.Logger) *Layer {
	return &Layer{
		backend:    backend,
		defaultTTL: defaultTTL,
		logger:     logger.With().Str("component", "cache").Str("backend", backend.Name()).Logger(),
	}
}

// Backend returns the underlying backend name, or "none" for a nil Layer.
func (l *Layer) Backend() string {
	if l == nil {
		return string(KindNone)
	}
	return l.backend.Name()
}

// Get decodes the value stored under key into dst and reports whether it was found.
func (l *Layer) Get(ctx context.Context, key string, dst any) bool {
	if l == nil {
		return false
	}

	data, found, err := l.backend.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheError(l.backend.Name(), "get")
		l.logger.Warn().Err(err).Str("key", key).Msg("Cache get failed, treating as miss")
		return false
	}
	if !found {
		metrics.RecordCacheLookup(l.backend.Name(), false)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		metrics.RecordCacheError(l.backend.Name(), "decode")
		l.logger.Warn().Err(err).Str("key", key).Msg("Cache entry undecodable, treating as miss")
		return false
	}
	metrics.RecordCacheLookup(l.backend.Name(), true)
	return true
}

// Set stores value under key. ttl <= 0 uses the layer default.
func (l *Layer) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if l == nil {
		return false
	}
	if ttl <= 0 {
		ttl = l.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		metrics.RecordCacheError(l.backend.Name(), "encode")
		l.logger.Warn().Err(err).Str("key", key).Msg("Cache value not serializable")
		return false
	}

	if err := l.backend.Set(ctx, key, data, ttl); err != nil {
		metrics.RecordCacheError(l.backend.Name(), "set")
		l.logger.Warn().Err(err).Str("key", key).Msg("Cache set failed")
		return false
	}
	return true
}

// Invalidate removes a single key, or every key sharing a prefix when pattern ends in Wildcard.
func (l *Layer) Invalidate(ctx context.Context, pattern string) bool {
	if l == nil {
		return false
	}

	prefix, isPrefix := strings.CutSuffix(pattern, Wildcard)
	if !isPrefix {
		if err := l.backend.Delete(ctx, pattern); err != nil {
			metrics.RecordCacheError(l.backend.Name(), "delete")
			l.logger.Warn().Err(err).Str("key", pattern).Msg("Cache invalidate failed")
			return false
		}
		metrics.RecordCacheInvalidation(l.backend.Name(), false)
		return true
	}

	n, err := l.backend.DeletePrefix(ctx, prefix)
	if err != nil {
		metrics.RecordCacheError(l.backend.Name(), "delete_prefix")
		l.logger.Warn().Err(err).Str("pattern", pattern).Int("removed", n).Msg("Cache prefix invalidate failed")
		return false
	}
	metrics.RecordCacheInvalidation(l.backend.Name(), true)
	l.logger.Debug().Str("pattern", pattern).Int("removed", n).Msg("Cache prefix invalidated")
	return true
}

// Close closes the backend.
func (l *Layer) Close() error {
	if l == nil {
		return nil
	}
	return l.backend.Close()
}

// Remember returns the cached value for key or computes it with fn. Concurrent misses for the
// same key share one fn call. Errors from fn are returned and never cached.
func Remember[T any](ctx context.Context, l *Layer, key string, ttl time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var cached T
	if l.Get(ctx, key, &cached) {
		return cached, nil
	}
	if l == nil {
		return fn(ctx)
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		val, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		l.Set(ctx, key, val, ttl)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	val, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: key %q shared by a different result type %T", key, v)
	}
	return val, nil
}
