package iodb

import (
	"context"
	"fmt"
	"strings"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// MemoryPath keeps a SQLite database in memory.
const MemoryPath = ":memory:"

// SQLiteOperator implements db.Operator for an embedded SQLite file.
type SQLiteOperator struct {
	path string
	db   *sqlx.DB
}

var _ db.Operator = (*SQLiteOperator)(nil)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// NewSQLiteOperator creates a new SQLite operator (without connecting).
func NewSQLiteOperator() *SQLiteOperator {
	return &SQLiteOperator{}
}

// Connect opens the SQLite file from config.
func (s *SQLiteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.SQLitePath
	if path == "" {
		path = MemoryPath
	}
	dsn := path
	if path != MemoryPath {
		dsn += "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	}

	sdb, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return SQLiteOpenError(path, err)
	}

	// SQLite has one writer, and every connection to ":memory:"
	// would get its own empty database.
	sdb.SetMaxOpenConns(1)

	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		return SQLiteOpenError(path, err)
	}

	s.path = path
	s.db = sdb
	return nil
}

// Close closes the database.
func (s *SQLiteOperator) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns sqlx handle.
func (s *SQLiteOperator) DB() *sqlx.DB {
	return s.db
}

// Dialect returns SQLite statement builders.
func (s *SQLiteOperator) Dialect() db.Dialect {
	return sqliteDialect{}
}

// TableExists checks if a table exists.
func (s *SQLiteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`
	var count int
	if err := s.db.GetContext(ctx, &count, query, tableName); err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return count > 0, nil
}

// HasTables checks if the database has any user tables.
func (s *SQLiteOperator) HasTables(ctx context.Context) (bool, error) {
	tables, err := s.tables(ctx)
	if err != nil {
		return false, err
	}
	return len(tables) > 0, nil
}

// DropAllTables drops all user tables.
func (s *SQLiteOperator) DropAllTables(ctx context.Context) error {
	tables, err := s.tables(ctx)
	if err != nil {
		return err
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", table)
		if _, err := s.db.ExecContext(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func (s *SQLiteOperator) tables(ctx context.Context) ([]string, error) {
	if s.db == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
	`
	var names []string
	if err := s.db.SelectContext(ctx, &names, query); err != nil {
		return nil, QueryTablesError(err)
	}

	res := names[:0]
	for _, n := range names {
		if !strings.HasPrefix(n, "sqlite_") {
			res = append(res, n)
		}
	}
	return res, nil
}
