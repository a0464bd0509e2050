package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// ConnectionError creates an error for failed PostgreSQL connection.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect
  - Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>
  3. Check database <em>%s</em> in your configuration file:
     <em>~/.config/gngeo/config.yaml</em>`

	vars := []any{host, port, host, user, database}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("failed to connect to %s:%d/%s: %w",
			host, port, database, err),
	}
}

// SQLiteOpenError creates an error for a SQLite file that cannot be
// opened.
func SQLiteOpenError(path string, err error) error {
	msg := "Could not open SQLite database <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to open sqlite %s: %w", path, err),
	}
}

// UnknownDriverError creates an error for unsupported store backends.
func UnknownDriverError(driver string) error {
	msg := `Unknown database driver <em>%s</em>

Supported drivers are "postgres" and "sqlite".`
	vars := []any{driver}

	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown database driver %q", driver),
	}
}

// NotConnectedError creates an error for operations attempted without
// connection.
func NotConnectedError() error {
	msg := "Database operation attempted without connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError creates an error for failed table check.
func TableCheckError(err error) error {
	msg := "Could not verify database state"

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// EmptyDatabaseError creates an error for a database without tables.
func EmptyDatabaseError(database string) error {
	msg := `The database <em>%s</em> has no tables

<em>How to fix:</em>
  1. Create the schema:
     <em>gngeo create</em>
  2. Enable countries and synchronize:
     <em>gngeo countries enable IT</em>
     <em>gngeo sync</em>`

	vars := []any{database}

	return &gn.Error{
		Code: errcode.DBEmptyDatabaseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf(
			"database %s has no tables, run 'gngeo create' first",
			database),
	}
}

// TableExistsCheckError creates an error for failed check of a table.
func TableExistsCheckError(table string, err error) error {
	msg := "Could not check if table <em>%s</em> exists"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// QueryTablesError creates an error for failed listing of tables.
func QueryTablesError(err error) error {
	msg := "Could not list database tables"

	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

// ScanTableError creates an error for failed read of a table name.
func ScanTableError(err error) error {
	msg := "Could not read table name"

	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

// DropTableError creates an error for a table that cannot be dropped.
func DropTableError(table string, err error) error {
	msg := "Could not drop table <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
