// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
	"github.com/Elijahuni/K-FOOD-LENS/internal/validation"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// BatchSimilarityRequest is the body of POST /api/v1/similarities/batch.
type BatchSimilarityRequest struct {
	TargetID     string   `json:"target_id" validate:"required,dishid"`
	CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,max=500,dive,dishid"`

	// Criterion defaults to composite.
	Criterion string `json:"criterion" validate:"omitempty,criterion"`
}

// CacheInvalidateRequest is the body of POST /api/v1/admin/cache/invalidate.
type CacheInvalidateRequest struct {
	Pattern string `json:"pattern" validate:"required,cachepattern"`
}

// BatchSimilarityResponse maps candidate ids to scores. Unknown candidates are absent.
type BatchSimilarityResponse struct {
	TargetID     string             `json:"target_id"`
	Criterion    string             `json:"criterion"`
	Similarities map[string]float64 `json:"similarities"`
}

// RecommendationsResponse is returned by both recommendation endpoints.
type RecommendationsResponse struct {
	DishID          string                     `json:"dish_id"`
	Criterion       string                     `json:"criterion,omitempty"`
	TopN            int                        `json:"top_n"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// RecomputeResponse keeps the task-style body of the scheduled job.
type RecomputeResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
	Processed    int    `json:"processed"`
	Failed       int    `json:"failed"`
	DurationMs   int64  `json:"duration_ms"`
}

// CacheInvalidateResponse reports what was invalidated.
type CacheInvalidateResponse struct {
	Pattern     string `json:"pattern"`
	Backend     string `json:"backend"`
	Invalidated bool   `json:"invalidated"`
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &bodyError{err: err}
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// bodyError is a malformed or oversized request body.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return "invalid request body: " + e.err.Error() }

func (e *bodyError) Unwrap() error { return e.err }

// parseTopN reads the optional top_n query parameter. Missing means the configured default;
// anything outside 1..max is rejected.
func parseTopN(r *http.Request, limits recommend.LimitsConfig) (int, string) {
	raw := strings.TrimSpace(r.URL.Query().Get("top_n"))
	if raw == "" {
		return limits.DefaultTopN, ""
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "top_n must be an integer"
	}
	if n < 1 || n > limits.MaxTopN {
		return 0, fmt.Sprintf("top_n must be between 1 and %d", limits.MaxTopN)
	}
	return n, ""
}
