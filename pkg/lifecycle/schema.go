package lifecycle

import (
	"context"

	"github.com/gnames/gngeo/pkg/config"
)

// SchemaManager defines the interface for database schema management.
// PostgreSQL schema is created with GORM AutoMigrate, SQLite schema with
// DDL generated from the same models.
// Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates tables and indexes. When full text search is enabled
	// in config, and the backend supports it, a full-text index on places
	// is created as well.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate brings existing tables to the latest model definitions
	// without dropping data.
	Migrate(ctx context.Context, cfg *config.Config) error

	// Optimize reclaims space of deleted rows and updates query planner
	// statistics.
	Optimize(ctx context.Context) error
}
