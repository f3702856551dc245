// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package api exposes the catalog and the recommendation engine over HTTP.

Routes are served by a chi router (see Router.Handler). Every JSON response uses the
APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "...", "duration_ms": 3}}
	{"success": false, "error": {"code": "INVALID_CRITERION", "message": "..."}, "meta": {...}}

Error mapping:
  - request validation failures: 400 VALIDATION_ERROR
  - unsupported criterion: 400 INVALID_CRITERION
  - unknown dish on GET /dishes/{id}: 404 NOT_FOUND
  - recompute already running: 409 CONFLICT
  - catalog store unreachable: 503 SERVICE_UNAVAILABLE

Recommendation endpoints never fail for an unknown dish or an unavailable store; they answer
200 with an empty list, matching the engine's read-path contract.

Batch similarity results are cached in the generic cache layer under the engine's response
prefix, so a recompute or an invalidation of "recommend:*" drops them too.
*/
package api
