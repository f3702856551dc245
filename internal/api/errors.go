// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"errors"
	"net/http"

	"github.com/Elijahuni/K-FOOD-LENS/internal/catalog"
	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
	"github.com/Elijahuni/K-FOOD-LENS/internal/validation"
)

// writeValidationError renders a failed request validation as 400 VALIDATION_ERROR.
func writeValidationError(rw *ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// writeFieldError reports a single malformed field the same way struct validation does.
func writeFieldError(rw *ResponseWriter, field, message string) {
	rw.ErrorWithDetails(http.StatusBadRequest, validation.ErrorCode, message,
		map[string]interface{}{"field": field})
}

// writeError maps domain errors to HTTP responses.
func writeError(rw *ResponseWriter, r *http.Request, err error) {
	var (
		verr *validation.RequestValidationError
		berr *bodyError
	)
	switch {
	case errors.As(err, &verr):
		writeValidationError(rw, verr)
	case errors.As(err, &berr):
		rw.BadRequest(berr.Error())
	case errors.Is(err, recommend.ErrInvalidCriterion):
		rw.Error(http.StatusBadRequest, ErrCodeInvalidCriterion, err.Error())
	case errors.Is(err, recommend.ErrRecomputeInProgress):
		rw.Conflict("a recompute pass is already running")
	case errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("dish not found")
	case errors.Is(err, catalog.ErrUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("catalog store unavailable")
		rw.ServiceUnavailable("catalog store unavailable")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		rw.InternalError("internal error")
	}
}
