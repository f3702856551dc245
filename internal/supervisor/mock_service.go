// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// errSimulated is returned by MockService while it has failures left to burn.
var errSimulated = errors.New("simulated failure")

// MockService is a controllable suture.Service for exercising restart behavior.
type MockService struct {
	name      string
	starts    atomic.Int32
	stops     atomic.Int32
	failures  atomic.Int32
	mu        sync.Mutex
	failFirst int32
	err       error
	started   chan struct{}
}

// NewMockService returns a service that blocks until its context is canceled.
func NewMockService(name string) *MockService {
	return &MockService{name: name, started: make(chan struct{}, 64)}
}

// Serve implements suture.Service.
func (m *MockService) Serve(ctx context.Context) error {
	m.starts.Add(1)
	defer m.stops.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}

	m.mu.Lock()
	err, failFirst := m.err, m.failFirst
	m.mu.Unlock()

	if failFirst > 0 && m.failures.Add(1) <= failFirst {
		return errSimulated
	}
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

// SetError makes every subsequent Serve return err immediately.
func (m *MockService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FailFirst makes the next n calls to Serve fail before the service settles.
func (m *MockService) FailFirst(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFirst = int32(n)
}

// Started is signaled on every Serve call.
func (m *MockService) Started() <-chan struct{} {
	return m.started
}

// StartCount returns how many times Serve was entered.
func (m *MockService) StartCount() int32 {
	return m.starts.Load()
}

// StopCount returns how many times Serve returned.
func (m *MockService) StopCount() int32 {
	return m.stops.Load()
}

func (m *MockService) String() string {
	return m.name
}
