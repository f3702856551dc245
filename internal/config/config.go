// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package config

import (
	"time"

	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an optional YAML file and
// environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Server: HTTP server configuration (port, host, timeouts)
//     - Store: catalog backend (memory, badger, mongo), seeding and circuit breaker
//     - Cache: generic cache backend (none, memory, redis, badger)
//
//  2. Engine:
//     - Recommend: similarity weights, limits, memo, response cache and recompute schedule
//
//  3. Edge:
//     - Security: CORS and rate limiting
//
//  4. Observability:
//     - Logging: Log levels and output formats
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), store, logger)
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Store     StoreConfig     `koanf:"store"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// StoreConfig selects and configures the catalog store.
//
// Environment Variables:
//   - STORE_BACKEND: memory, badger, mongo (default: memory)
//   - SEED_FILE: JSON dish file loaded into an empty store (default: data/dishes.json)
//   - MONGO_URI, MONGO_DATABASE, MONGO_COLLECTION: MongoDB connection
//   - BADGER_PATH: BadgerDB directory, empty for in-memory
//   - STORE_BREAKER_ENABLED: wrap the store in a circuit breaker (default: true)
type StoreConfig struct {
	Backend  string               `koanf:"backend"`
	SeedFile string               `koanf:"seed_file"`
	Mongo    MongoConfig          `koanf:"mongo"`
	Badger   BadgerConfig         `koanf:"badger"`
	Breaker  CircuitBreakerConfig `koanf:"breaker"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	Collection     string        `koanf:"collection"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
	MaxPoolSize    uint64        `koanf:"max_pool_size"`
}

// BadgerConfig holds BadgerDB settings. An empty Path opens an in-memory database.
type BadgerConfig struct {
	Path string `koanf:"path"`
}

// CircuitBreakerConfig holds circuit breaker settings for the catalog store
type CircuitBreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// CacheConfig selects and configures the generic cache backend.
//
// Environment Variables:
//   - CACHE_BACKEND: none, memory, redis, badger (default: memory)
//   - CACHE_DEFAULT_TTL: TTL for entries stored without one (default: 10m)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX: Redis connection
//   - CACHE_BADGER_PATH: BadgerDB directory for the badger backend
type CacheConfig struct {
	Backend         string        `koanf:"backend"`
	DefaultTTL      time.Duration `koanf:"default_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
	Redis           RedisConfig   `koanf:"redis"`
	Badger          BadgerConfig  `koanf:"badger"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
	KeyPrefix   string        `koanf:"key_prefix"`
}

// RecommendConfig holds recommendation engine settings.
//
// Environment Variables:
//   - RECOMMEND_COOKING_MODE: profile or techniques (default: profile)
//   - RECOMMEND_DEFAULT_TOP_N / RECOMMEND_MAX_TOP_N: result size bounds (default: 3 / 50)
//   - RECOMMEND_WORKERS: concurrent item scoring during recompute (default: 4)
//   - RECOMMEND_WRITE_RATE: recompute write-backs per second, 0 = unlimited (default: 0)
//   - RECOMMEND_CACHE_ENABLED / RECOMMEND_CACHE_TTL: response caching (default: true / 10m)
//   - RECOMPUTE_ON_STARTUP: run a recompute pass at startup (default: false)
//   - RECOMPUTE_INTERVAL: periodic recompute interval, 0 = disabled (default: 24h)
//   - RECOMPUTE_TIMEOUT: bound on a single pass (default: 30m)
type RecommendConfig struct {
	Weights       recommend.WeightsConfig       `koanf:"weights"`
	CookingMode   string                        `koanf:"cooking_mode"`
	Limits        recommend.LimitsConfig        `koanf:"limits"`
	Memo          recommend.MemoConfig          `koanf:"memo"`
	ResponseCache recommend.ResponseCacheConfig `koanf:"response_cache"`
	Recompute     RecomputeConfig               `koanf:"recompute"`
}

// RecomputeConfig schedules the background recompute job
type RecomputeConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"`
	Timeout   time.Duration `koanf:"timeout"`

	// RetryDelay is how soon a pass that could not start is retried.
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// EngineConfig converts the section into a recommend.Config.
func (r RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Weights:       r.Weights,
		CookingMode:   recommend.CookingMode(r.CookingMode),
		Limits:        r.Limits,
		Memo:          r.Memo,
		ResponseCache: r.ResponseCache,
	}
}

// SecurityConfig holds HTTP edge protection settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Load reads configuration from defaults, the optional config file and the environment.
//
// See LoadWithKoanf() for the underlying implementation.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
