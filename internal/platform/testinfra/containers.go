// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

// Package testinfra starts disposable PostgreSQL and Redis containers for
// store integration tests. Run them with `go test -tags integration ./...`.
package testinfra

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/cinemadb/internal/platform/migration"
	"github.com/taibuivan/cinemadb/internal/platform/postgres"
	"github.com/taibuivan/cinemadb/internal/platform/redis"
)

const (
	postgresImage = "postgres:16-alpine"
	postgresPort  = "5432/tcp"
	redisImage    = "redis:7-alpine"
	redisPort     = "6379/tcp"

	startupTimeout = 60 * time.Second
)

// SkipIfNoDocker skips the test when no Docker daemon is reachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := exec.CommandContext(ctx, "docker", "info").Run(); err != nil {
		t.Skip("Skipping test: Docker not available")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// migrationsPath resolves data/migrations from this file's location.
func migrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "data", "migrations")
}

func start(t *testing.T, request testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: request,
		Started:          true,
	})
	require.NoError(t, err, "start %s", request.Image)

	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	return container
}

// StartPostgres runs a migrated PostgreSQL instance and returns a pool connected to it.
func StartPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	SkipIfNoDocker(t)

	container := start(t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{postgresPort},
		Env: map[string]string{
			"POSTGRES_USER":     "movies",
			"POSTGRES_PASSWORD": "movies",
			"POSTGRES_DB":       "movies",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(postgresPort),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithStartupTimeout(startupTimeout),
	})

	host, err := container.Host(context.Background())
	require.NoError(t, err)
	port, err := container.MappedPort(context.Background(), postgresPort)
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://movies:movies@%s:%s/movies?sslmode=disable", host, port.Port())
	logger := discardLogger()

	require.NoError(t, migration.RunUp(dsn, migrationsPath(), logger))

	pool, err := postgres.NewPool(context.Background(), dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// StartRedis runs a Redis instance and returns a connected client.
func StartRedis(t *testing.T) *goredis.Client {
	t.Helper()
	SkipIfNoDocker(t)

	container := start(t, testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{redisPort},
		WaitingFor:   wait.ForListeningPort(redisPort).WithStartupTimeout(startupTimeout),
	})

	host, err := container.Host(context.Background())
	require.NoError(t, err)
	port, err := container.MappedPort(context.Background(), redisPort)
	require.NoError(t, err)

	client, err := redis.NewClient(context.Background(), fmt.Sprintf("redis://%s:%s/0", host, port.Port()), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client
}
