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
	"github.com/thejerf/suture/v4"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	return nil
}

func TestWarmupService_SuccessLeavesTree(t *testing.T) {
	t.Parallel()

	engine := &fakeRefresher{}
	svc := NewWarmupService(engine, time.Second, zerolog.Nop())

	if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve = %v, want ErrDoNotRestart", err)
	}
	if svc.String() != "index-warmup" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestWarmupService_FailureIsReturned(t *testing.T) {
	t.Parallel()

	storeDown := errors.New("store down")
	svc := NewWarmupService(&fakeRefresher{errs: []error{storeDown}}, time.Second, zerolog.Nop())

	err := svc.Serve(context.Background())
	if !errors.Is(err, storeDown) {
		t.Errorf("Serve = %v, want wrapped store error", err)
	}
}

func TestWarmupService_RetriedBySupervisor(t *testing.T) {
	t.Parallel()

	engine := &fakeRefresher{errs: []error{errors.New("a"), errors.New("b")}}
	sup := suture.New("test", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewWarmupService(engine, time.Second, zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	<-sup.ServeBackground(ctx)

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.calls != 3 {
		t.Errorf("Refresh called %d times, want 3 (two failures then success)", engine.calls)
	}
}
