package iodb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iodb"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memConfig() *config.DatabaseConfig {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabaseSQLitePath(iodb.MemoryPath),
	})
	return &cfg.Database
}

func TestNewOperator(t *testing.T) {
	op, err := iodb.NewOperator(memConfig())
	require.NoError(t, err)
	assert.IsType(t, &iodb.SQLiteOperator{}, op)

	op, err = iodb.NewOperator(&config.New().Database)
	require.NoError(t, err)
	assert.IsType(t, &iodb.PgxOperator{}, op)

	_, err = iodb.NewOperator(&config.DatabaseConfig{Driver: "mysql"})
	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBUnknownDriverError, gnErr.Code)
}

func TestSQLiteOperator(t *testing.T) {
	ctx := context.Background()
	op := iodb.NewSQLiteOperator()

	_, err := op.HasTables(ctx)
	assert.Error(t, err, "not connected")

	require.NoError(t, op.Connect(ctx, memConfig()))
	defer op.Close()

	assert.Equal(t, "sqlite", op.Dialect().Name())

	has, err := op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = op.DB().ExecContext(ctx, "CREATE TABLE t1 (id INTEGER)")
	require.NoError(t, err)

	exists, err := op.TableExists(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = op.TableExists(ctx, "t2")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, op.DropAllTables(ctx))
	has, err = op.HasTables(ctx)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestConnectionError(t *testing.T) {
	orig := errors.New("connection refused")
	err := iodb.ConnectionError("localhost", 5432, "gngeo", "postgres", orig)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.Len(t, gnErr.Vars, 5)
	assert.ErrorIs(t, gnErr.Err, orig)
}
