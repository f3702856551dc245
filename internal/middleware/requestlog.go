// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
)

// RequestLogger writes one access log line per request. Requests slower than
// slowThreshold, and 5xx responses, are logged at warn; everything else at info.
// A non-positive slowThreshold disables the slow check.
func RequestLogger(slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := zerolog.InfoLevel
			msg := "request served"
			switch {
			case status >= http.StatusInternalServerError:
				level = zerolog.WarnLevel
				msg = "request failed"
			case slowThreshold > 0 && elapsed > slowThreshold:
				level = zerolog.WarnLevel
				msg = "slow request"
			}

			logging.Ctx(r.Context()).WithLevel(level).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", elapsed).
				Msg(msg)
		})
	}
}
