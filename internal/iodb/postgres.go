package iodb

import (
	"context"
	"fmt"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// PgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type PgxOperator struct {
	pool *pgxpool.Pool
	db   *sqlx.DB
}

var _ db.Operator = (*PgxOperator)(nil)

// NewPgxOperator creates a new PostgreSQL operator
// (without connecting).
func NewPgxOperator() *PgxOperator {
	return &PgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
// Uses sensible hardcoded pool settings that work well for
// most use cases.
func (p *PgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// full sync runs one worker per country, each needs its own
	// connection
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.db = sqlx.NewDb(stdlib.OpenDBFromPool(pool), "pgx")
	return nil
}

// Close releases all database connections.
func (p *PgxOperator) Close() error {
	if p.db != nil {
		_ = p.db.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// DB returns sqlx handle that shares the pgx pool.
func (p *PgxOperator) DB() *sqlx.DB {
	return p.db
}

// Pool returns the underlying pgxpool.Pool.
func (p *PgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// Dialect returns PostgreSQL statement builders.
func (p *PgxOperator) Dialect() db.Dialect {
	return postgresDialect{}
}

// TableExists checks if a table exists in the current
// database.
func (p *PgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.db.GetContext(ctx, &exists, query, tableName)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// HasTables checks if the database has any tables in the
// public schema.
func (p *PgxOperator) HasTables(ctx context.Context) (bool, error) {
	if p.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`

	var hasTables bool
	err := p.db.GetContext(ctx, &hasTables, query)
	if err != nil {
		return false, TableCheckError(err)
	}

	return hasTables, nil
}

// DropAllTables drops all tables in the public schema.
func (p *PgxOperator) DropAllTables(ctx context.Context) error {
	if p.db == nil {
		return NotConnectedError()
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`

	var tables []string
	if err := p.db.SelectContext(ctx, &tables, query); err != nil {
		return QueryTablesError(err)
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf(
			"DROP TABLE IF EXISTS %s CASCADE", table)
		if _, err := p.db.ExecContext(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}

	return nil
}
