// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package logging holds the process-wide zerolog logger for K-Food Lens.

Call Init once from main with the values from config.LoggingConfig. Before that the
package logs JSON at info level to stderr, so early startup errors are not lost.
Setting KFOOD_QUIET_LOGS=1 drops everything below fatal, which keeps benchmark and
fuzz output readable.

# Context

HTTP middleware stores the request id with ContextWithRequestID; the recompute job
stores a correlation id per pass. Ctx(ctx) returns a logger carrying both:

	logging.Ctx(ctx).Info().Int("updated", n).Msg("recompute finished")

Components that are handed a logger at construction (the recommendation engine, the
stores, the cache layer) should receive WithComponent(name) rather than reaching for
the global functions.

# slog

SlogHandler adapts zerolog to log/slog for libraries that require it. The suture
supervisor tree is the only such consumer today.

# Secrets

Never log connection strings directly. RedactURI masks the password portion and
SecretPresence reduces a secret to "set" or "unset".
*/
package logging
