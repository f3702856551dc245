// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Elijahuni/K-FOOD-LENS/internal/api"
	"github.com/Elijahuni/K-FOOD-LENS/internal/config"
	"github.com/Elijahuni/K-FOOD-LENS/internal/logging"
	"github.com/Elijahuni/K-FOOD-LENS/internal/supervisor"
	"github.com/Elijahuni/K-FOOD-LENS/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// startupTimeout bounds store and cache connection at startup.
const startupTimeout = 30 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("store", cfg.Store.Backend).
		Str("cache", cfg.Cache.Backend).
		Msg("Starting K-Food Lens with supervisor tree")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows every origin; set CORS_ORIGINS for production")
	}

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	startCtx, cancelStart := context.WithTimeout(context.Background(), startupTimeout)
	defer cancelStart()

	store, closeStore, err := initStore(startCtx, cfg, logging.WithComponent("catalog"))
	if err != nil {
		return fmt.Errorf("initialize catalog store: %w", err)
	}
	defer closeStore()

	responseCache, closeCache := initCache(startCtx, cfg, logging.WithComponent("cache"))
	defer closeCache()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	engine, err := initRecommend(cfg, store, responseCache, tree, logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("initialize recommendation engine: %w", err)
	}

	handler := api.NewHandler(engine, store, responseCache, api.HandlerConfig{
		RecomputeTimeout: cfg.Recommend.Recompute.Timeout,
		Version:          version,
	}, logging.WithComponent("api"))

	router := api.NewRouter(handler, api.RouterConfig{
		Middleware: &api.ChiMiddlewareConfig{
			CORSAllowedOrigins: cfg.Security.CORSOrigins,
			CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
			CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
			CORSMaxAge:         86400,
			RateLimitRequests:  cfg.Security.RateLimitReqs,
			RateLimitWindow:    cfg.Security.RateLimitWindow,
			RateLimitDisabled:  cfg.Security.RateLimitDisabled,
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      max(cfg.Server.Timeout, cfg.Recommend.Recompute.Timeout),
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// the channel yields exactly one value when the tree stops
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	return nil
}
