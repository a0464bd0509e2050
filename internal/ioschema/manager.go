// Package ioschema implements SchemaManager interface for
// database schema management. This is an impure I/O package
// that wraps GORM AutoMigrate functionality for PostgreSQL and
// runs generated DDL for SQLite.
package ioschema

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/gnames/gngeo/pkg/lifecycle"
	"github.com/gnames/gngeo/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// pooler is implemented by operators backed by a pgx pool. Such stores
// are migrated by GORM.
type pooler interface {
	Pool() *pgxpool.Pool
}

// Manager implements the lifecycle.SchemaManager interface.
type Manager struct {
	operator db.Operator
}

var _ lifecycle.SchemaManager = (*Manager)(nil)

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) *Manager {
	return &Manager{operator: op}
}

// Create creates tables and indexes. With full text enabled in config
// a GIN index is added on PostgreSQL.
func (m *Manager) Create(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.tables(ctx, CreateSchemaError); err != nil {
		return err
	}
	if err := m.indexes(ctx); err != nil {
		return err
	}
	if cfg.Search.UseFullText {
		return m.fullTextIndex(ctx)
	}
	return nil
}

// Migrate updates existing tables to the current models.
func (m *Manager) Migrate(
	ctx context.Context,
	cfg *config.Config,
) error {
	if err := m.tables(ctx, MigrateSchemaError); err != nil {
		return err
	}
	if err := m.indexes(ctx); err != nil {
		return err
	}
	if cfg.Search.UseFullText {
		return m.fullTextIndex(ctx)
	}
	return nil
}

// Optimize reclaims space left by deleted rows and refreshes planner
// statistics. It cannot run inside a transaction.
func (m *Manager) Optimize(ctx context.Context) error {
	if m.operator.DB() == nil {
		return NotConnectedError()
	}
	timeStart := time.Now()

	if p, ok := m.operator.(pooler); ok {
		stmt := "VACUUM ANALYZE"
		slog.Info("Running VACUUM ANALYZE on database...")
		if _, err := p.Pool().Exec(ctx, stmt); err != nil {
			return OptimizeError(stmt, err)
		}
	} else {
		for _, stmt := range []string{"VACUUM", "ANALYZE"} {
			slog.Info("Running " + stmt + " on database...")
			if _, err := m.operator.DB().ExecContext(ctx, stmt); err != nil {
				return OptimizeError(stmt, err)
			}
		}
	}

	slog.Info("Database optimized",
		"duration", gnfmt.TimeString(time.Since(timeStart).Seconds()))
	return nil
}

func (m *Manager) tables(
	ctx context.Context,
	errFn func(error) error,
) error {
	if m.operator.DB() == nil {
		return NotConnectedError()
	}

	if p, ok := m.operator.(pooler); ok {
		gormDB, err := openGORM(p.Pool())
		if err != nil {
			return GORMConnectionError(err)
		}
		if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
			return errFn(err)
		}
		return nil
	}

	for _, mdl := range schema.AllDDL() {
		slog.Debug("Creating table", "table", mdl.TableName())
		if _, err := m.operator.DB().ExecContext(ctx, mdl.TableDDL()); err != nil {
			return errFn(err)
		}
	}
	return nil
}

func (m *Manager) indexes(ctx context.Context) error {
	for _, mdl := range schema.AllDDL() {
		for _, stmt := range mdl.IndexDDL() {
			if _, err := m.operator.DB().ExecContext(ctx, stmt); err != nil {
				return IndexError(stmt, err)
			}
		}
	}
	return nil
}

func (m *Manager) fullTextIndex(ctx context.Context) error {
	stmt, ok := m.operator.Dialect().FullTextIndex(
		schema.Place{}.TableName(), schema.FullTextColumns,
	)
	if !ok {
		slog.Warn("Full text search is not supported by the backend",
			"driver", m.operator.Dialect().Name())
		return nil
	}
	if _, err := m.operator.DB().ExecContext(ctx, stmt); err != nil {
		return IndexError(stmt, err)
	}
	return nil
}

func openGORM(pool *pgxpool.Pool) (*gorm.DB, error) {
	var sqlDB *sql.DB = stdlib.OpenDBFromPool(pool)
	return gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
}
