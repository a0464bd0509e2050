package ioadmin

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// UpsertError creates an error for a failed write of admin units.
func UpsertError(table string, err error) error {
	msg := "Cannot write administrative units to <em>%s</em>"
	vars := []any{table}

	return &gn.Error{
		Code: errcode.AdminUpsertError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("upsert into %s failed: %w", table, err),
	}
}

// ReadStoreError creates an error for a failed read of stored ADMn places.
func ReadStoreError(err error) error {
	msg := "Cannot read administrative places from the database"

	return &gn.Error{
		Code: errcode.AdminReadStoreError,
		Msg:  msg,
		Err:  fmt.Errorf("read of ADMn places failed: %w", err),
	}
}
