// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

// Package validation checks API request structs with go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct metadata and
// is safe for concurrent use. Field names in error messages are taken from the json
// (or query) tag, so a failure reads "candidate_ids is required" rather than naming
// the Go field.
//
//	type BatchSimilarityRequest struct {
//		TargetID     string   `json:"target_id" validate:"required,dishid"`
//		CandidateIDs []string `json:"candidate_ids" validate:"required,min=1,max=500,dive,dishid"`
//		Criterion    string   `json:"criterion" validate:"required,criterion"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//		apiErr := verr.ToAPIError()
//		// 400 with apiErr.Code == "VALIDATION_ERROR"
//	}
package validation
