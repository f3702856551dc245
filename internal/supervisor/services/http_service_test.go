// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// stubServer blocks in ListenAndServe until Shutdown unless listenErr is set.
type stubServer struct {
	listenErr   error
	shutdownErr error
	listening   chan struct{}
	closed      chan struct{}
	listens     atomic.Int32
	shutdowns   atomic.Int32
}

func newStubServer() *stubServer {
	return &stubServer{listening: make(chan struct{}, 8), closed: make(chan struct{})}
}

func (s *stubServer) ListenAndServe() error {
	s.listens.Add(1)
	select {
	case s.listening <- struct{}{}:
	default:
	}
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.closed
	return http.ErrServerClosed
}

func (s *stubServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.closed)
	}
	return s.shutdownErr
}

func (s *stubServer) waitListening(t *testing.T) {
	t.Helper()
	select {
	case <-s.listening:
	case <-time.After(time.Second):
		t.Fatal("ListenAndServe was not called")
	}
}

func TestNewHTTPServerService_Timeouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want time.Duration
	}{
		{5 * time.Second, 5 * time.Second},
		{0, 10 * time.Second},
		{-time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		svc := NewHTTPServerService(newStubServer(), tt.in)
		if svc.shutdownTimeout != tt.want {
			t.Errorf("NewHTTPServerService(%v).shutdownTimeout = %v, want %v", tt.in, svc.shutdownTimeout, tt.want)
		}
	}
	if got := NewHTTPServerService(newStubServer(), 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	t.Parallel()

	srv := newStubServer()
	svc := NewHTTPServerService(srv, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	srv.waitListening(t)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if srv.shutdowns.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", srv.shutdowns.Load())
	}
}

func TestHTTPServerService_ListenFailure(t *testing.T) {
	t.Parallel()

	bindErr := errors.New("bind: address already in use")
	srv := newStubServer()
	srv.listenErr = bindErr

	err := NewHTTPServerService(srv, time.Second).Serve(context.Background())
	if !errors.Is(err, bindErr) {
		t.Errorf("Serve = %v, want wrapped bind error", err)
	}
}

func TestHTTPServerService_ShutdownFailure(t *testing.T) {
	t.Parallel()

	shutdownErr := errors.New("connections did not drain")
	srv := newStubServer()
	srv.shutdownErr = shutdownErr
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	srv.waitListening(t)
	cancel()

	if err := <-done; !errors.Is(err, shutdownErr) {
		t.Errorf("Serve = %v, want shutdown error", err)
	}
}

func TestHTTPServerService_RestartedAfterCrash(t *testing.T) {
	t.Parallel()

	srv := newStubServer()
	srv.listenErr = errors.New("listener closed unexpectedly")

	sup := suture.New("api", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewHTTPServerService(srv, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)
	srv.waitListening(t)
	srv.waitListening(t)
	cancel()
	<-errCh

	if srv.listens.Load() < 2 {
		t.Errorf("ListenAndServe called %d times, want >= 2", srv.listens.Load())
	}
}
