package ioreconcile

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// ProbeError creates an error for a failed lookup of existing ids.
func ProbeError(table string, err error) error {
	msg := "Cannot check existing records in <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.ReconcileProbeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("probe of %s failed: %w", table, err),
	}
}

// InsertError creates an error for a failed bulk insert.
func InsertError(table string, rows int, err error) error {
	msg := "Cannot insert %d records into <em>%s</em>"
	vars := []any{rows, table}

	return &gn.Error{
		Code: errcode.ReconcileInsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("insert into %s failed: %w", table, err),
	}
}

// UpdateError creates an error for a failed bulk update.
func UpdateError(table string, rows int, err error) error {
	msg := "Cannot update %d records of <em>%s</em>"
	vars := []any{rows, table}

	return &gn.Error{
		Code: errcode.ReconcileUpdateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("update of %s failed: %w", table, err),
	}
}

// DeleteError creates an error for a failed bulk delete.
func DeleteError(table string, rows int, err error) error {
	msg := "Cannot delete %d records of <em>%s</em>"
	vars := []any{rows, table}

	return &gn.Error{
		Code: errcode.ReconcileDeleteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("delete from %s failed: %w", table, err),
	}
}
