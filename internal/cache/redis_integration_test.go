// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/Elijahuni/K-FOOD-LENS/internal/testinfra"
)

func TestRedisBackend_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)
	ctx := context.Background()

	container, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, container)

	client, err := ConnectRedis(ctx, RedisConfig{Addr: container.Addr})
	if err != nil {
		t.Fatalf("ConnectRedis() error = %v", err)
	}

	b := NewRedisBackend(client, "kfl:")
	defer b.Close()

	backendContract(t, b)
}
