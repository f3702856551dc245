// K-Food Lens - Dish Similarity and Recommendation Service
// Copyright 2026 K-Food Lens contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Elijahuni/K-FOOD-LENS

//go:build integration

package testinfra

import (
	"context"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMongoImage is the MongoDB image used for catalog store tests.
	DefaultMongoImage = "mongo:7"

	// DefaultRedisImage is the Redis image used for cache backend tests.
	DefaultRedisImage = "redis:7-alpine"
)

// MongoContainer is a running MongoDB instance.
type MongoContainer struct {
	testcontainers.Container
	URI string
}

// RedisContainer is a running Redis instance.
type RedisContainer struct {
	testcontainers.Container
	Addr string
}

// ContainerOption configures a test container.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	image        string
	startTimeout time.Duration
}

// WithImage overrides the default image.
func WithImage(image string) ContainerOption {
	return func(c *containerConfig) {
		c.image = image
	}
}

// WithStartTimeout sets how long to wait for the service to accept connections.
func WithStartTimeout(timeout time.Duration) ContainerOption {
	return func(c *containerConfig) {
		c.startTimeout = timeout
	}
}

func applyOptions(image string, opts []ContainerOption) *containerConfig {
	cfg := &containerConfig{image: image, startTimeout: 60 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NewMongoContainer starts a single-node MongoDB.
//
// Example:
//
//	mongo, err := NewMongoContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer CleanupContainer(t, ctx, mongo)
func NewMongoContainer(ctx context.Context, opts ...ContainerOption) (*MongoContainer, error) {
	cfg := applyOptions(DefaultMongoImage, opts)

	container, endpoint, err := startGeneric(ctx, testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("27017/tcp"),
			wait.ForLog("Waiting for connections"),
		).WithStartupTimeout(cfg.startTimeout),
	})
	if err != nil {
		return nil, err
	}

	return &MongoContainer{Container: container, URI: "mongodb://" + endpoint}, nil
}

// NewRedisContainer starts a Redis server.
func NewRedisContainer(ctx context.Context, opts ...ContainerOption) (*RedisContainer, error) {
	cfg := applyOptions(DefaultRedisImage, opts)

	container, endpoint, err := startGeneric(ctx, testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp"),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	})
	if err != nil {
		return nil, err
	}

	return &RedisContainer{Container: container, Addr: endpoint}, nil
}
