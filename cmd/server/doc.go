// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package main is the entry point for the K-Food Lens recommendation server.

The server loads the dish catalog, builds the similarity index and answers "dishes like this
one" queries over HTTP. A scheduled job materializes per-criterion neighbor lists back into the
catalog so most reads are served from precomputed data.

# Application Architecture

Services run under a Suture v4 supervision tree:

	RootSupervisor ("kfood-lens")
	├── DataSupervisor ("data-layer")
	│   └── index-warmup (first index build, not restarted once done)
	├── JobsSupervisor ("jobs-layer")
	│   └── recompute-service (startup and interval recompute)
	└── APISupervisor ("api-layer")
	    └── http-server (chi router)

Initialization order:

 1. Configuration: Koanf v2 with defaults, optional config.yaml and environment
 2. Logging: zerolog with JSON/console output
 3. Catalog store: memory, badger or MongoDB, behind a gobreaker circuit breaker, seeded from
    SEED_FILE when empty
 4. Response cache: none, memory, Redis or badger
 5. Recommendation engine plus its warm-up and recompute services
 6. HTTP server

# Configuration

Priority: environment variables > config file > defaults.

	HTTP_PORT=8080
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	STORE_BACKEND=mongo          # memory, badger, mongo
	MONGO_URI=mongodb://localhost:27017
	MONGO_DATABASE=kfood
	SEED_FILE=data/dishes.json

	CACHE_BACKEND=redis          # none, memory, redis, badger
	REDIS_ADDR=localhost:6379

	RECOMPUTE_ON_STARTUP=true
	RECOMPUTE_INTERVAL=24h

	CORS_ORIGINS=https://app.example.com
	RATE_LIMIT_REQUESTS=100

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight requests within
SHUTDOWN_TIMEOUT, a running recompute pass is canceled, and store and cache connections are
closed on the way out.
*/
package main
