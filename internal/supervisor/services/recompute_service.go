// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
	"github.com/Elijahuni/K-FOOD-LENS/internal/recommend"
)

// Recomputer runs one full similarity pass. *recommend.Engine satisfies it.
type Recomputer interface {
	RecomputeAll(ctx context.Context) (*recommend.RecomputeResult, error)
}

// RecomputeServiceConfig schedules recompute passes.
type RecomputeServiceConfig struct {
	// RunOnStartup runs a pass as soon as the service starts.
	RunOnStartup bool

	// Interval between passes. Zero disables the schedule.
	Interval time.Duration

	// Timeout bounds a single pass.
	Timeout time.Duration

	// RetryDelay replaces Interval for the next pass after one that could not start.
	RetryDelay time.Duration
}

// RecomputeService runs RecomputeAll on a schedule under supervision.
type RecomputeService struct {
	engine Recomputer
	config RecomputeServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRecomputeService creates the scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecomputeService(engine Recomputer, cfg RecomputeServiceConfig, logger zerolog.Logger) *RecomputeService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Minute
	}
	return &RecomputeService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "recompute").Logger(),
		name:   "recompute-service",
	}
}

// Serve implements suture.Service. Failed passes are logged and rescheduled; Serve
// only returns when ctx ends.
func (s *RecomputeService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("recompute service starting")

	next := s.config.Interval
	if s.config.RunOnStartup {
		next = s.delayAfter(s.run(ctx))
	}

	if s.config.Interval <= 0 && next <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	timer := time.NewTimer(next)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recompute service shutting down")
			return ctx.Err()

		case <-timer.C:
			next = s.delayAfter(s.run(ctx))
			if next <= 0 {
				<-ctx.Done()
				return ctx.Err()
			}
			timer.Reset(next)
		}
	}
}

type runOutcome int

const (
	runOK runOutcome = iota
	runSkipped
	runFailedToStart
	runFailed
)

// delayAfter picks the wait before the next pass.
func (s *RecomputeService) delayAfter(outcome runOutcome) time.Duration {
	if outcome == runFailedToStart {
		return s.config.RetryDelay
	}
	return s.config.Interval
}

func (s *RecomputeService) run(ctx context.Context) runOutcome {
	if ctx.Err() != nil {
		return runSkipped
	}
	runCtx, cancel := context.WithTimeout(logging.ContextWithNewCorrelationID(ctx), s.config.Timeout)
	defer cancel()

	log := s.logger.With().Str("correlation_id", logging.CorrelationIDFromContext(runCtx)).Logger()

	result, err := s.engine.RecomputeAll(runCtx)
	switch {
	case errors.Is(err, recommend.ErrRecomputeInProgress):
		log.Info().Msg("recompute already running, skipping scheduled pass")
		return runSkipped
	case err != nil && (result == nil || result.Processed == 0):
		log.Warn().Err(err).Dur("retry_in", s.config.RetryDelay).Msg("recompute could not start")
		return runFailedToStart
	case err != nil:
		log.Warn().
			Err(err).
			Int("processed", result.Processed).
			Int("updated", result.UpdatedCount).
			Msg("recompute pass ended early")
		return runFailed
	}

	log.Info().
		Int("updated", result.UpdatedCount).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("scheduled recompute finished")
	return runOK
}

func (s *RecomputeService) String() string {
	return s.name
}
