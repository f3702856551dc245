// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

/*
Package supervisor runs the long-lived parts of the K-Food Lens server under a
suture v4 supervision tree.

# Layout

	kfood-lens
	├── data-layer
	│   └── services.WarmupService     builds the similarity index once, then exits
	├── jobs-layer
	│   └── services.RecomputeService  scheduled RecomputeAll passes
	└── api-layer
	    └── services.HTTPServerService chi router behind http.Server

Each layer counts failures on its own, so a recompute that keeps failing backs off
inside jobs-layer while the API continues to answer requests from the current index.

# Logging

Supervisor events (service start, failure, backoff) go through sutureslog into the
zerolog logger via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewWarmupService(engine, logger))
	tree.AddJobService(services.NewRecomputeService(engine, recomputeCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, shutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

MockService is exported for tests in this package and in cmd/server.
*/
package supervisor
