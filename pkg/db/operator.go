package db

import (
	"context"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/jmoiron/sqlx"
)

// Operator defines the interface for basic database management operations.
// It owns the connection lifecycle and exposes a backend-neutral sqlx handle
// together with the Dialect that knows how statements differ between
// backends. Lifecycle components (SchemaManager, Reconciler, Searcher) run
// their SQL through DB() and never branch on the backend name.
type Operator interface {
	// Connect opens the store described by the config.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close releases the connection pool.
	Close() error

	// DB returns the sqlx handle. Queries are written with '?'
	// placeholders and converted with DB().Rebind.
	DB() *sqlx.DB

	// Dialect returns backend-specific statement builders.
	Dialect() Dialect

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any user tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all user tables.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
