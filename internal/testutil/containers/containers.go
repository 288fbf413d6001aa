//go:build integration

// Package containers provides testcontainers-go helpers for integration
// testing against real PostgreSQL and Redis containers.
//
// All helpers are gated behind the "integration" build tag so they do
// not pull Docker-related dependencies into unit test builds. Use them
// exclusively from test files that carry the same tag:
//
//	//go:build integration
package containers

import (
	"context"
	"fmt"

	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// DefaultPostgresImage is the container image used for PostgreSQL
// integration tests. Alpine variant for fast startup.
const DefaultPostgresImage = "docker.io/postgres:16-alpine"

// DefaultPostgresDatabase is the database name created inside the
// PostgreSQL container for integration tests.
const DefaultPostgresDatabase = "taskhub_test"

// DefaultPostgresUser is the superuser name for the PostgreSQL
// container.
const DefaultPostgresUser = "testuser"

// DefaultPostgresPassword is the password for the test superuser. A
// deliberately weak credential for ephemeral test containers only.
const DefaultPostgresPassword = "testpassword"

// PostgresResult holds a started PostgreSQL container and the
// connection string needed to connect to it. The caller terminates the
// container when done:
//
//	defer result.Container.Terminate(ctx)
//
// ConnString includes sslmode=disable because testcontainers expose
// PostgreSQL on localhost without TLS.
type PostgresResult struct {
	Container  *tcpostgres.PostgresContainer
	ConnString string
}

// StartPostgres starts a PostgreSQL 16 container and returns a
// [PostgresResult] with a connection string ready for the postgres
// client's URI config field.
func StartPostgres(ctx context.Context) (*PostgresResult, error) {
	container, err := tcpostgres.Run(ctx,
		DefaultPostgresImage,
		tcpostgres.WithDatabase(DefaultPostgresDatabase),
		tcpostgres.WithUsername(DefaultPostgresUser),
		tcpostgres.WithPassword(DefaultPostgresPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("containers: failed to start postgres container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("containers: failed to get connection string: %w", err)
	}

	return &PostgresResult{
		Container:  container,
		ConnString: connStr,
	}, nil
}

// DefaultRedisImage is the container image used for Redis integration
// tests.
const DefaultRedisImage = "docker.io/redis:7-alpine"

// RedisResult holds a started Redis container and its connection string
// (redis://...). The caller terminates the container when done.
type RedisResult struct {
	Container  *tcredis.RedisContainer
	ConnString string
}

// StartRedis starts a Redis 7 container and returns a [RedisResult]
// with a connection string ready for the redis client's URI config
// field.
func StartRedis(ctx context.Context) (*RedisResult, error) {
	container, err := tcredis.Run(ctx, DefaultRedisImage)
	if err != nil {
		return nil, fmt.Errorf("containers: failed to start redis container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("containers: failed to get redis connection string: %w", err)
	}

	return &RedisResult{
		Container:  container,
		ConnString: connStr,
	}, nil
}
