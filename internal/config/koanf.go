// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/kfood-lens/config.yaml",
	"/etc/kfood-lens/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			Backend:  "memory",
			SeedFile: "data/dishes.json",
			Mongo: MongoConfig{
				URI:            "mongodb://localhost:27017",
				Database:       "kfood",
				Collection:     "foods",
				ConnectTimeout: 10 * time.Second,
				MaxPoolSize:    50,
			},
			Badger: BadgerConfig{
				Path: "/data/catalog",
			},
			Breaker: CircuitBreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      30 * time.Second,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Cache: CacheConfig{
			Backend:         "memory",
			DefaultTTL:      10 * time.Minute,
			CleanupInterval: time.Minute,
			Redis: RedisConfig{
				Addr:        "localhost:6379",
				DB:          0,
				DialTimeout: 5 * time.Second,
				KeyPrefix:   "kfood:",
			},
			Badger: BadgerConfig{
				Path: "/data/cache",
			},
		},
		Recommend: RecommendConfig{
			Weights:       engine.Weights,
			CookingMode:   string(engine.CookingMode),
			Limits:        engine.Limits,
			Memo:          engine.Memo,
			ResponseCache: engine.ResponseCache,
			Recompute: RecomputeConfig{
				OnStartup:  false,
				Interval:   24 * time.Hour,
				Timeout:    30 * time.Minute,
				RetryDelay: time.Minute,
			},
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// STORE_BACKEND -> store.backend, REDIS_ADDR -> cache.redis.addr
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf config paths.
// Unmapped variables are ignored so unrelated environment does not leak into config.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"server_timeout":   "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog store
	"store_backend":               "store.backend",
	"seed_file":                   "store.seed_file",
	"mongo_uri":                   "store.mongo.uri",
	"mongo_database":              "store.mongo.database",
	"mongo_collection":            "store.mongo.collection",
	"mongo_connect_timeout":       "store.mongo.connect_timeout",
	"mongo_max_pool_size":         "store.mongo.max_pool_size",
	"badger_path":                 "store.badger.path",
	"store_breaker_enabled":       "store.breaker.enabled",
	"store_breaker_timeout":       "store.breaker.timeout",
	"store_breaker_failure_ratio": "store.breaker.failure_ratio",

	// Generic cache
	"cache_backend":          "cache.backend",
	"cache_default_ttl":      "cache.default_ttl",
	"cache_cleanup_interval": "cache.cleanup_interval",
	"cache_badger_path":      "cache.badger.path",
	"redis_addr":             "cache.redis.addr",
	"redis_password":         "cache.redis.password",
	"redis_db":               "cache.redis.db",
	"redis_dial_timeout":     "cache.redis.dial_timeout",
	"redis_key_prefix":       "cache.redis.key_prefix",

	// Recommendation engine
	"recommend_cooking_mode":    "recommend.cooking_mode",
	"recommend_default_top_n":   "recommend.limits.default_top_n",
	"recommend_max_top_n":       "recommend.limits.max_top_n",
	"recommend_neighbors_k":     "recommend.limits.neighbors_k",
	"recommend_batch_size":      "recommend.limits.batch_size",
	"recommend_workers":         "recommend.limits.recompute_workers",
	"recommend_write_rate":      "recommend.limits.write_rate",
	"recommend_write_burst":     "recommend.limits.write_burst",
	"recommend_request_timeout": "recommend.limits.request_timeout",
	"recommend_memo_capacity":   "recommend.memo.capacity",
	"recommend_cache_enabled":   "recommend.response_cache.enabled",
	"recommend_cache_ttl":       "recommend.response_cache.ttl",
	"recompute_on_startup":      "recommend.recompute.on_startup",
	"recompute_interval":        "recommend.recompute.interval",
	"recompute_timeout":         "recommend.recompute.timeout",
	"recompute_retry_delay":     "recommend.recompute.retry_delay",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - STORE_BACKEND -> store.backend
//   - REDIS_ADDR -> cache.redis.addr
//   - RECOMPUTE_INTERVAL -> recommend.recompute.interval
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
