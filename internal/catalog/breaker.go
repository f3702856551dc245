// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Elijahuni/K-FOOD-LENS/internal/metrics"
)

// BreakerConfig configures BreakerStore.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // concurrent probes allowed in half-open state
	Interval     time.Duration // count reset period while closed
	Timeout      time.Duration // open -> half-open delay
	MinRequests  uint32        // requests needed before the ratio is evaluated
	FailureRatio float64
}

// DefaultBreakerConfig opens after 60% failures over at least 10 requests and probes again
// after 30 seconds.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "catalog-store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerStore wraps a Store with a circuit breaker. Only ErrUnavailable failures count against
// the breaker; ErrNotFound and decode errors are business outcomes. While the circuit is open
// every call fails immediately with ErrUnavailable.
type BreakerStore struct {
	next   Store
	cb     *gobreaker.CircuitBreaker[any]
	name   string
	logger zerolog.Logger
}

// NewBreakerStore wraps next.
func NewBreakerStore(next Store, cfg BreakerConfig, logger zerolog.Logger) *BreakerStore {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = def.FailureRatio
	}

	bs := &BreakerStore{
		next:   next,
		name:   cfg.Name,
		logger: logger.With().Str("component", "catalog-breaker").Str("breaker", cfg.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cfg.Name).Set(0)

	bs.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				bs.logger.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("Opening circuit")
				return true
			}
			return false
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			bs.logger.Info().Str("from", stateToString(from)).Str("to", stateToString(to)).Msg("Circuit state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateToString(from), stateToString(to)).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrUnavailable)
		},
	})

	return bs
}

// State returns the current breaker state as "closed", "half-open" or "open".
func (bs *BreakerStore) State() string {
	return stateToString(bs.cb.State())
}

func (bs *BreakerStore) execute(fn func() (any, error)) (any, error) {
	result, err := bs.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(bs.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(bs.name).Set(0)
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(bs.name, "rejected").Inc()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if errors.Is(err, ErrUnavailable) {
		metrics.CircuitBreakerRequests.WithLabelValues(bs.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(bs.name).Set(float64(bs.cb.Counts().ConsecutiveFailures))
	} else {
		metrics.CircuitBreakerRequests.WithLabelValues(bs.name, "success").Inc()
	}
	return result, err
}

// FindOne implements Store.
func (bs *BreakerStore) FindOne(ctx context.Context, id string) (*Item, error) {
	return castResult[*Item](bs.execute(func() (any, error) {
		return bs.next.FindOne(ctx, id)
	}))
}

// FindAll implements Store.
func (bs *BreakerStore) FindAll(ctx context.Context, filter Filter) ([]*Item, error) {
	return castResult[[]*Item](bs.execute(func() (any, error) {
		return bs.next.FindAll(ctx, filter)
	}))
}

// UpdateSimilarFoods implements Store.
func (bs *BreakerStore) UpdateSimilarFoods(ctx context.Context, id string, sf SimilarFoods) (int64, error) {
	return castResult[int64](bs.execute(func() (any, error) {
		return bs.next.UpdateSimilarFoods(ctx, id, sf)
	}))
}

// Upsert implements Store.
func (bs *BreakerStore) Upsert(ctx context.Context, item *Item) error {
	_, err := bs.execute(func() (any, error) {
		return nil, bs.next.Upsert(ctx, item)
	})
	return err
}

// Count implements Store.
func (bs *BreakerStore) Count(ctx context.Context) (int64, error) {
	return castResult[int64](bs.execute(func() (any, error) {
		return bs.next.Count(ctx)
	}))
}

// castResult type-asserts a breaker result, returning the zero value on error.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
