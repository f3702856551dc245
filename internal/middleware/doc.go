// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package middleware holds the cross-cutting HTTP middleware mounted by internal/api.

  - RequestID: X-Request-ID in and out, plus request and correlation ids in the
    context for logging.Ctx.
  - PrometheusMetrics: request count, latency and in-flight gauge from
    internal/metrics, labeled by chi route pattern.
  - RequestLogger: one zerolog line per request; slow requests and 5xx at warn.

All three are plain func(http.Handler) http.Handler and are mounted with chi's
r.Use. Status capture uses chi's WrapResponseWriter.

Order in the router:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(time.Second))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
