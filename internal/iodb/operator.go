// Package iodb implements database operations for PostgreSQL and SQLite.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"strings"

	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/db"
)

// NewOperator creates an operator for the configured driver
// (without connecting).
func NewOperator(cfg *config.DatabaseConfig) (db.Operator, error) {
	switch strings.ToLower(cfg.Driver) {
	case "postgres", "":
		return NewPgxOperator(), nil
	case "sqlite":
		return NewSQLiteOperator(), nil
	default:
		return nil, UnknownDriverError(cfg.Driver)
	}
}
