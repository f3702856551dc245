// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

// Package testinfra provides container-backed infrastructure for integration tests.
//
// Everything here is behind the integration build tag and uses testcontainers-go to run real
// MongoDB and Redis instances, so the catalog and cache backends are exercised against the
// same servers they talk to in production:
//
//	func TestMongoStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo)
//
//	    client, err := catalog.ConnectMongo(ctx, catalog.MongoConfig{URI: mongo.URI})
//	    // ...
//	}
//
// Run with:
//
//	go test -tags integration ./...
package testinfra
