// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// ErrUnavailable is wrapped around backend failures caused by the remote store being unreachable.
var ErrUnavailable = errors.New("cache: backend unavailable")

// Backend is a byte-oriented key/value store with per-key TTL.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	// Get returns the value for key. A missing or expired key reports found=false and no error.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key. A ttl of zero keeps the key until it is deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes one key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Close releases backend resources.
	Close() error
}

// Kind selects a backend implementation.
type Kind string

const (
	KindNone   Kind = "none"
	KindMemory Kind = "memory"
	KindRedis  Kind = "redis"
	KindBadger Kind = "badger"
)

// GenerateKey creates a cache key from the method name and parameters
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}

	// Hash the JSON data for a compact key
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
