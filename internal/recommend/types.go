// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package recommend

import "time"

// Result sources, used as the metrics "source" label.
const (
	SourcePrecomputed = "precomputed"
	SourceLive        = "live"
	SourceCache       = "cache"
	SourceEmpty       = "empty"
)

// Recommendation is one ranked neighbor of the queried item.
type Recommendation struct {
	// ID is the neighbor's dish ID.
	ID string `json:"id"`

	// NameKo and NameEn are the neighbor's names.
	NameKo string `json:"nameKo"`
	NameEn string `json:"nameEn,omitempty"`

	// Criterion is the criterion that produced the entry, or "composite" for the live blend.
	Criterion Criterion `json:"criterion"`

	// Similarity is the score in [0, 1].
	Similarity float64 `json:"similarity"`

	// Details holds per-criterion scores for live composite results.
	Details map[Criterion]float64 `json:"details,omitempty"`
}

// PairScores is the full comparison of two items.
type PairScores struct {
	Scores
	Composite float64 `json:"composite"`
}

// RecomputeResult summarizes one recompute pass.
type RecomputeResult struct {
	Success      bool          `json:"success"`
	UpdatedCount int           `json:"updated_count"`
	Processed    int           `json:"processed"`
	Failed       int           `json:"failed"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Error        string        `json:"error,omitempty"`
}

// Stats is a point-in-time view of engine state.
type Stats struct {
	Initialized     bool             `json:"initialized"`
	IndexItems      int              `json:"index_items"`
	IndexGeneration uint64           `json:"index_generation"`
	IndexBuiltAt    time.Time        `json:"index_built_at"`
	MemoEntries     int              `json:"memo_entries"`
	MemoHits        int64            `json:"memo_hits"`
	MemoMisses      int64            `json:"memo_misses"`
	Requests        int64            `json:"requests"`
	Errors          int64            `json:"errors"`
	Recomputing     bool             `json:"recomputing"`
	LastRecompute   *RecomputeResult `json:"last_recompute,omitempty"`
}
