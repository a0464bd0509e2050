package ioparse

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

var (
	// ErrShortRow is returned for rows with fewer fields than the format
	// requires. Such rows are skipped and counted.
	ErrShortRow = errors.New("row has too few fields")

	// ErrBadID is returned when an id field is not an integer.
	ErrBadID = errors.New("id is not an integer")

	// ErrBadAdminCode is returned for admin-code keys that are not
	// "CC.A1[.A2...]".
	ErrBadAdminCode = errors.New("malformed admin code")
)

// OpenFileError creates an error for a dump file that cannot be opened.
func OpenFileError(path string, err error) error {
	msg := "Cannot open <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.ParseOpenFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot open %s: %w", path, err),
	}
}

// ReadError creates an error for a failed read in the middle of a file.
func ReadError(path string, line int, err error) error {
	msg := "Cannot read <em>%s</em> at line %d"
	vars := []any{path, line}

	return &gn.Error{
		Code: errcode.ParseReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read %s at line %d: %w", path, line, err),
	}
}

func shortRow(want, got int) error {
	return fmt.Errorf("%w: want %d, got %d", ErrShortRow, want, got)
}
