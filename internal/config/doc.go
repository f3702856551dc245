// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package config provides centralized configuration management for K-Food Lens.

Configuration is layered with Koanf v2: struct defaults, then an optional YAML file, then
environment variables. The merged result is validated before use.

# Configuration Sources

  - Defaults from defaultConfig()
  - YAML file named by CONFIG_PATH, or the first of DefaultConfigPaths that exists
  - Environment variables listed in envMappings

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - SERVER_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development, staging or production

Catalog store:
  - STORE_BACKEND: memory, badger or mongo (default: memory)
  - SEED_FILE: dish JSON loaded into an empty store (default: data/dishes.json)
  - MONGO_URI, MONGO_DATABASE, MONGO_COLLECTION
  - BADGER_PATH

Generic cache:
  - CACHE_BACKEND: none, memory, redis or badger (default: memory)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_KEY_PREFIX
  - CACHE_BADGER_PATH

Recommendation engine:
  - RECOMMEND_COOKING_MODE, RECOMMEND_DEFAULT_TOP_N, RECOMMEND_MAX_TOP_N
  - RECOMMEND_WORKERS, RECOMMEND_WRITE_RATE, RECOMMEND_REQUEST_TIMEOUT
  - RECOMMEND_CACHE_ENABLED, RECOMMEND_CACHE_TTL
  - RECOMPUTE_ON_STARTUP, RECOMPUTE_INTERVAL, RECOMPUTE_TIMEOUT

Security:
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

Weights have no environment mapping; set them in the YAML file:

	recommend:
	  weights:
	    online:  {taste: 0.7, ingredient: 0.3}
	    offline: {taste: 0.4, ingredient: 0.3, cooking: 0.2, region: 0.1}

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("invalid configuration")
	}
*/
package config
