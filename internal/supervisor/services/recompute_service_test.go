// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

// fakeRecomputer returns scripted outcomes in order, then successes.
type fakeRecomputer struct {
	mu      sync.Mutex
	calls   []time.Time
	script  []error
	delay   time.Duration
	sawDeadline bool
}

func (f *fakeRecomputer) RecomputeAll(ctx context.Context) (*recommend.RecomputeResult, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, time.Now())
	var err error
	if n < len(f.script) {
		err = f.script[n]
	}
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return &recommend.RecomputeResult{Processed: 1, Error: ctx.Err().Error()}, ctx.Err()
		case <-time.After(f.delay):
		}
	}

	switch {
	case errors.Is(err, recommend.ErrRecomputeInProgress):
		return nil, err
	case err != nil:
		return &recommend.RecomputeResult{Error: err.Error()}, err
	}
	return &recommend.RecomputeResult{Success: true, Processed: 4, UpdatedCount: 2}, nil
}

func (f *fakeRecomputer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func serveFor(t *testing.T, svc *RecomputeService, d time.Duration) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return svc.Serve(ctx)
}

func TestRecomputeService_String(t *testing.T) {
	t.Parallel()

	svc := NewRecomputeService(&fakeRecomputer{}, RecomputeServiceConfig{}, zerolog.Nop())
	if svc.String() != "recompute-service" {
		t.Errorf("String() = %q", svc.String())
	}
	if svc.config.Timeout != 30*time.Minute || svc.config.RetryDelay != time.Minute {
		t.Errorf("defaults not applied: %+v", svc.config)
	}
}

func TestRecomputeService_RunOnStartup(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{
		RunOnStartup: true,
		Interval:     time.Hour,
		Timeout:      time.Second,
	}, zerolog.Nop())

	err := serveFor(t, svc, 100*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v, want deadline exceeded", err)
	}
	if got := engine.callCount(); got != 1 {
		t.Errorf("RecomputeAll called %d times, want 1", got)
	}
	if !engine.sawDeadline {
		t.Error("pass ran without a timeout")
	}
}

func TestRecomputeService_NoStartupNoSchedule(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{}, zerolog.Nop())

	_ = serveFor(t, svc, 80*time.Millisecond)
	if got := engine.callCount(); got != 0 {
		t.Errorf("RecomputeAll called %d times, want 0", got)
	}
}

func TestRecomputeService_Interval(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{
		Interval: 40 * time.Millisecond,
		Timeout:  time.Second,
	}, zerolog.Nop())

	_ = serveFor(t, svc, 150*time.Millisecond)
	if got := engine.callCount(); got < 2 {
		t.Errorf("RecomputeAll called %d times, want >= 2", got)
	}
}

func TestRecomputeService_RetriesPassThatCouldNotStart(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{script: []error{errors.New("store unreachable")}}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{
		RunOnStartup: true,
		Interval:     time.Hour,
		Timeout:      time.Second,
		RetryDelay:   30 * time.Millisecond,
	}, zerolog.Nop())

	_ = serveFor(t, svc, 150*time.Millisecond)
	if got := engine.callCount(); got != 2 {
		t.Errorf("RecomputeAll called %d times, want 2 (failure then retry)", got)
	}
}

func TestRecomputeService_InProgressIsNotRetriedEarly(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{script: []error{recommend.ErrRecomputeInProgress}}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{
		RunOnStartup: true,
		Interval:     time.Hour,
		Timeout:      time.Second,
		RetryDelay:   10 * time.Millisecond,
	}, zerolog.Nop())

	_ = serveFor(t, svc, 100*time.Millisecond)
	if got := engine.callCount(); got != 1 {
		t.Errorf("RecomputeAll called %d times, want 1", got)
	}
}

func TestRecomputeService_TimeoutBoundsPass(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{delay: time.Second}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{
		RunOnStartup: true,
		Interval:     time.Hour,
		Timeout:      20 * time.Millisecond,
	}, zerolog.Nop())

	start := time.Now()
	_ = serveFor(t, svc, 200*time.Millisecond)
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Serve took %v; pass timeout not applied", elapsed)
	}
}

func TestRecomputeService_ShutdownDuringPass(t *testing.T) {
	t.Parallel()

	engine := &fakeRecomputer{delay: time.Second}
	svc := NewRecomputeService(engine, RecomputeServiceConfig{
		RunOnStartup: true,
		Interval:     time.Hour,
		Timeout:      time.Minute,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
