// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRecommendRequest(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("by_criteria", "live"))

	RecordRecommendRequest("by_criteria", "live", 3*time.Millisecond)

	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("by_criteria", "live"))
	if after-before != 1 {
		t.Errorf("RecommendRequests delta = %v, want 1", after-before)
	}
}

func TestRecordMemoLookup(t *testing.T) {
	hits := testutil.ToFloat64(MemoLookups.WithLabelValues("taste", "hit"))
	misses := testutil.ToFloat64(MemoLookups.WithLabelValues("taste", "miss"))

	RecordMemoLookup("taste", true)
	RecordMemoLookup("taste", false)
	RecordMemoLookup("taste", false)

	if got := testutil.ToFloat64(MemoLookups.WithLabelValues("taste", "hit")) - hits; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(MemoLookups.WithLabelValues("taste", "miss")) - misses; got != 2 {
		t.Errorf("miss delta = %v, want 2", got)
	}
}

func TestRecordRecompute(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		label   string
	}{
		{name: "successful pass", success: true, label: "success"},
		{name: "failed pass", success: false, label: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecomputeRuns.WithLabelValues(tt.label))
			updatedBefore := testutil.ToFloat64(RecomputeUpdatedItems)

			RecordRecompute(tt.success, 4, 1, time.Second)

			if got := testutil.ToFloat64(RecomputeRuns.WithLabelValues(tt.label)) - before; got != 1 {
				t.Errorf("RecomputeRuns[%s] delta = %v, want 1", tt.label, got)
			}
			if got := testutil.ToFloat64(RecomputeUpdatedItems) - updatedBefore; got != 4 {
				t.Errorf("RecomputeUpdatedItems delta = %v, want 4", got)
			}
		})
	}

	if testutil.ToFloat64(RecomputeLastSuccess) == 0 {
		t.Error("RecomputeLastSuccess should be set after a successful pass")
	}
}

func TestRecordStoreOperation(t *testing.T) {
	before := testutil.ToFloat64(StoreErrors.WithLabelValues("memory", "find_one"))

	RecordStoreOperation("memory", "find_one", time.Millisecond, nil)
	RecordStoreOperation("memory", "find_one", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(StoreErrors.WithLabelValues("memory", "find_one")) - before; got != 1 {
		t.Errorf("StoreErrors delta = %v, want 1", got)
	}
}

func TestRecordCacheInvalidation(t *testing.T) {
	exact := testutil.ToFloat64(CacheInvalidations.WithLabelValues("memory", "exact"))
	prefix := testutil.ToFloat64(CacheInvalidations.WithLabelValues("memory", "prefix"))

	RecordCacheInvalidation("memory", false)
	RecordCacheInvalidation("memory", true)

	if got := testutil.ToFloat64(CacheInvalidations.WithLabelValues("memory", "exact")) - exact; got != 1 {
		t.Errorf("exact delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheInvalidations.WithLabelValues("memory", "prefix")) - prefix; got != 1 {
		t.Errorf("prefix delta = %v, want 1", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("in flight = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("in flight = %v, want %v", got, before)
	}
}
