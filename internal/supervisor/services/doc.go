// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package services adapts K-Food Lens components to suture.Service.

  - HTTPServerService turns http.Server's ListenAndServe/Shutdown pair into a
    context-driven Serve with a bounded graceful shutdown.
  - WarmupService builds the similarity index once and then returns
    suture.ErrDoNotRestart. Failures are retried by the supervisor's backoff.
  - RecomputeService runs Engine.RecomputeAll on startup (optional) and every
    Interval, each pass under its own timeout and correlation id. A pass that cannot
    start at all (store unreachable) is retried after RetryDelay instead of waiting a
    full interval. A pass rejected with recommend.ErrRecomputeInProgress is skipped.

Every service implements fmt.Stringer so supervisor events name it.
*/
package services
