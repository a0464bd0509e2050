package ioimport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// CancelledError creates an error for an import stopped by the context.
func CancelledError(typ string, err error) error {
	msg := "Import <em>%s</em> was cancelled"
	vars := []any{typ}

	return &gn.Error{
		Code: errcode.ImportCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s import cancelled: %w", typ, err),
	}
}

// FailedError creates an error for an import that did not finish.
func FailedError(typ, location string, err error) error {
	msg := "Import <em>%s</em> of <em>%s</em> failed"
	vars := []any{typ, location}

	return &gn.Error{
		Code: errcode.ImportFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s import of %s failed: %w", typ, location, err),
	}
}
