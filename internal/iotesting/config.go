// Package iotesting provides shared test utilities for store-backed tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"context"
	"fmt"
	"testing"

	"github.com/gnames/gngeo/internal/iodb"
	"github.com/gnames/gngeo/internal/ioschema"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// TestDatabaseName is the database name used for PostgreSQL tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gngeo_test"

	testUser     = "gngeo"
	testPassword = "gngeo"
)

// Config returns a configuration for tests that keeps the store in
// memory and places temporary files in a per-test directory.
func Config(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabaseSQLitePath(iodb.MemoryPath),
		config.OptHomeDir(t.TempDir()),
		config.OptImportTempDir(t.TempDir()),
		config.OptJobsNumber(2),
	})
	return cfg
}

// NewSQLite returns a connected in-memory SQLite operator with the
// complete schema. The database is closed when the test finishes.
func NewSQLite(t *testing.T) *iodb.SQLiteOperator {
	t.Helper()
	ctx := context.Background()
	cfg := Config(t)

	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	t.Cleanup(func() { _ = op.Close() })

	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))
	return op
}

// NewPostgres starts a disposable PostgreSQL container and returns a
// connected operator with the complete schema, full-text index included.
// The test is skipped in short mode.
func NewPostgres(t *testing.T) *iodb.PgxOperator {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       TestDatabaseName,
			"POSTGRES_USER":     testUser,
			"POSTGRES_PASSWORD": testPassword,
		},
		WaitingFor: wait.ForLog(
			"database system is ready to accept connections",
		).WithOccurrence(2),
	}

	pgC, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	cfg := Config(t)
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("postgres"),
		config.OptDatabaseHost(host),
		config.OptDatabasePort(port.Int()),
		config.OptDatabaseUser(testUser),
		config.OptDatabasePassword(testPassword),
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptSearchUseFullText(true),
	})

	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database),
		fmt.Sprintf("connect to %s:%d", host, port.Int()))
	t.Cleanup(func() { _ = op.Close() })

	require.NoError(t, ioschema.NewManager(op).Create(ctx, cfg))
	return op
}

// NewRedis starts a disposable Redis container and returns the cache
// configuration pointing to it. The test is skipped in short mode.
func NewRedis(t *testing.T) *config.CacheConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	rC, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rC.Terminate(ctx) })

	host, err := rC.Host(ctx)
	require.NoError(t, err)
	port, err := rC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cfg := Config(t)
	cfg.Update([]config.Option{
		config.OptCacheAddr(fmt.Sprintf("%s:%d", host, port.Int())),
		config.OptCacheTTLSec(60),
	})
	return &cfg.Cache
}
