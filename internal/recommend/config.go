// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights holds the live (online) and offline composite weighting schemes.
	Weights WeightsConfig `json:"weights" koanf:"weights"`

	// CookingMode selects the cooking similarity formula.
	CookingMode CookingMode `json:"cooking_mode" koanf:"cooking_mode"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Memo bounds the pairwise score memo.
	Memo MemoConfig `json:"memo" koanf:"memo"`

	// ResponseCache controls caching of request-path responses in the generic cache layer.
	ResponseCache ResponseCacheConfig `json:"response_cache" koanf:"response_cache"`
}

// WeightsConfig holds both composite schemes.
type WeightsConfig struct {
	// Online is used by the live fallback of GetRecommendations.
	Online Weights `json:"online" koanf:"online"`

	// Offline is used by CompositeScores and the batch composite criterion.
	Offline Weights `json:"offline" koanf:"offline"`
}

// Weights is the per-criterion contribution to a composite score.
// Weights are applied as given; they are not normalized.
type Weights struct {
	Taste      float64 `json:"taste" koanf:"taste"`
	Ingredient float64 `json:"ingredient" koanf:"ingredient"`
	Cooking    float64 `json:"cooking" koanf:"cooking"`
	Region     float64 `json:"region" koanf:"region"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Taste + w.Ingredient + w.Cooking + w.Region
}

// Uses reports whether the criterion carries any weight.
func (w Weights) Uses(c Criterion) bool {
	switch c {
	case CriterionTaste:
		return w.Taste > 0
	case CriterionIngredient:
		return w.Ingredient > 0
	case CriterionCooking:
		return w.Cooking > 0
	case CriterionRegion:
		return w.Region > 0
	default:
		return false
	}
}

func (w Weights) validate(name string) error {
	for _, v := range []struct {
		field string
		value float64
	}{
		{"taste", w.Taste},
		{"ingredient", w.Ingredient},
		{"cooking", w.Cooking},
		{"region", w.Region},
	} {
		if v.value < 0 {
			return fmt.Errorf("weights.%s.%s must be non-negative, got %f", name, v.field, v.value)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("weights.%s must have a positive sum", name)
	}
	return nil
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultTopN is used when a request does not specify top_n.
	DefaultTopN int `json:"default_top_n" koanf:"default_top_n"`

	// MaxTopN caps top_n.
	MaxTopN int `json:"max_top_n" koanf:"max_top_n"`

	// NeighborsK is the number of neighbors materialized per criterion.
	NeighborsK int `json:"neighbors_k" koanf:"neighbors_k"`

	// BatchSize is the number of items scored per recompute batch.
	BatchSize int `json:"batch_size" koanf:"batch_size"`

	// RecomputeWorkers bounds concurrent item scoring within a batch.
	RecomputeWorkers int `json:"recompute_workers" koanf:"recompute_workers"`

	// WriteRate paces recompute write-backs per second. Zero means unlimited.
	WriteRate float64 `json:"write_rate" koanf:"write_rate"`

	// WriteBurst is the limiter burst when WriteRate is set.
	WriteBurst int `json:"write_burst" koanf:"write_burst"`

	// RequestTimeout bounds a single read-path request.
	RequestTimeout time.Duration `json:"request_timeout" koanf:"request_timeout"`
}

// MemoConfig bounds the pairwise score memo.
type MemoConfig struct {
	Capacity int `json:"capacity" koanf:"capacity"`
}

// ResponseCacheConfig controls response caching.
type ResponseCacheConfig struct {
	Enabled bool          `json:"enabled" koanf:"enabled"`
	TTL     time.Duration `json:"ttl" koanf:"ttl"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			Online: Weights{
				Taste:      0.7,
				Ingredient: 0.3,
			},
			Offline: Weights{
				Taste:      0.4,
				Ingredient: 0.3,
				Cooking:    0.2,
				Region:     0.1,
			},
		},
		CookingMode: CookingModeProfile,
		Limits: LimitsConfig{
			DefaultTopN:      3,
			MaxTopN:          50,
			NeighborsK:       5,
			BatchSize:        25,
			RecomputeWorkers: 4,
			WriteRate:        0,
			WriteBurst:       10,
			RequestTimeout:   5 * time.Second,
		},
		Memo: MemoConfig{
			Capacity: 10000,
		},
		ResponseCache: ResponseCacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Weights.Online.validate("online"); err != nil {
		return err
	}
	if err := c.Weights.Offline.validate("offline"); err != nil {
		return err
	}

	switch c.CookingMode {
	case CookingModeProfile, CookingModeTechniques:
	default:
		return fmt.Errorf("cooking_mode must be %q or %q, got %q", CookingModeProfile, CookingModeTechniques, c.CookingMode)
	}

	if c.Limits.DefaultTopN < 1 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n must be >= limits.default_top_n, got %d < %d", c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Limits.NeighborsK < 1 {
		return fmt.Errorf("limits.neighbors_k must be positive, got %d", c.Limits.NeighborsK)
	}
	if c.Limits.BatchSize < 1 {
		return fmt.Errorf("limits.batch_size must be positive, got %d", c.Limits.BatchSize)
	}
	if c.Limits.RecomputeWorkers < 1 {
		return fmt.Errorf("limits.recompute_workers must be positive, got %d", c.Limits.RecomputeWorkers)
	}
	if c.Limits.WriteRate < 0 {
		return fmt.Errorf("limits.write_rate must be non-negative, got %f", c.Limits.WriteRate)
	}
	if c.Limits.WriteRate > 0 && c.Limits.WriteBurst < 1 {
		return fmt.Errorf("limits.write_burst must be positive when write_rate is set, got %d", c.Limits.WriteBurst)
	}
	if c.Limits.RequestTimeout <= 0 {
		return fmt.Errorf("limits.request_timeout must be positive, got %v", c.Limits.RequestTimeout)
	}

	if c.Memo.Capacity < 1 {
		return fmt.Errorf("memo.capacity must be positive, got %d", c.Memo.Capacity)
	}
	if c.ResponseCache.Enabled && c.ResponseCache.TTL <= 0 {
		return fmt.Errorf("response_cache.ttl must be positive when enabled, got %v", c.ResponseCache.TTL)
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Weights:       c.Weights,
		CookingMode:   c.CookingMode,
		Limits:        c.Limits,
		Memo:          c.Memo,
		ResponseCache: c.ResponseCache,
	}
}

// clampTopN applies the default and the cap to a requested result size.
func (c *Config) clampTopN(n int) int {
	if n <= 0 {
		return c.Limits.DefaultTopN
	}
	if n > c.Limits.MaxTopN {
		return c.Limits.MaxTopN
	}
	return n
}
