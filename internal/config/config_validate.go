// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive")
	}
	return nil
}

// validStoreBackends defines the allowed catalog store backends
var validStoreBackends = map[string]bool{
	"memory": true,
	"badger": true,
	"mongo":  true,
}

// validateStore validates catalog store configuration
func (c *Config) validateStore() error {
	if !validStoreBackends[c.Store.Backend] {
		return fmt.Errorf("STORE_BACKEND must be one of: memory, badger, mongo")
	}

	if c.Store.Backend == "mongo" {
		if c.Store.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=mongo")
		}
		if c.Store.Mongo.Database == "" || c.Store.Mongo.Collection == "" {
			return fmt.Errorf("MONGO_DATABASE and MONGO_COLLECTION are required when STORE_BACKEND=mongo")
		}
	}

	return c.validateBreaker()
}

// validateBreaker validates circuit breaker configuration (only if enabled)
func (c *Config) validateBreaker() error {
	b := c.Store.Breaker
	if !b.Enabled {
		return nil
	}
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("store.breaker.failure_ratio must be in (0, 1], got %f", b.FailureRatio)
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("store.breaker.timeout must be positive, got %v", b.Timeout)
	}
	return nil
}

// validCacheBackends defines the allowed generic cache backends
var validCacheBackends = map[string]bool{
	"none":   true,
	"memory": true,
	"redis":  true,
	"badger": true,
}

// validateCache validates generic cache configuration
func (c *Config) validateCache() error {
	if !validCacheBackends[c.Cache.Backend] {
		return fmt.Errorf("CACHE_BACKEND must be one of: none, memory, redis, badger")
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}
	if c.Cache.Backend != "none" && c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive")
	}
	return nil
}

// validateRecommend validates the engine section and the recompute schedule
func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if c.Recommend.Recompute.Interval < 0 {
		return fmt.Errorf("RECOMPUTE_INTERVAL must not be negative")
	}
	if c.Recommend.Recompute.Timeout <= 0 {
		return fmt.Errorf("RECOMPUTE_TIMEOUT must be positive")
	}
	if c.Recommend.Recompute.RetryDelay <= 0 {
		return fmt.Errorf("RECOMPUTE_RETRY_DELAY must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateSecurity validates rate limiting bounds
func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ShouldWarnAboutCORS returns true if CORS allows any origin in production
func (c *Config) ShouldWarnAboutCORS() bool {
	if !c.IsProduction() {
		return false
	}
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
