package iotrack

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// ErrRunClosed is returned when a completed or failed run is closed
// again.
var ErrRunClosed = errors.New("import run is already closed")

// StartError creates an error for a run that could not be recorded.
func StartError(typ string, err error) error {
	msg := "Cannot record start of <em>%s</em> import"
	vars := []any{typ}

	return &gn.Error{
		Code: errcode.TrackStartError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("start of %s import failed: %w", typ, err),
	}
}

// UpdateError creates an error for a failed update of a run.
func UpdateError(id string, err error) error {
	msg := "Cannot update import run <em>%s</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.TrackUpdateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("update of import run %s failed: %w", id, err),
	}
}

// ClosedError wraps ErrRunClosed with the run id.
func ClosedError(id, status string) error {
	msg := "Import run <em>%s</em> is already <em>%s</em>"
	vars := []any{id, status}

	return &gn.Error{
		Code: errcode.TrackClosedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("run %s: %w", id, ErrRunClosed),
	}
}

// ReadError creates an error for a failed listing of runs.
func ReadError(err error) error {
	msg := "Cannot read import runs"

	return &gn.Error{
		Code: errcode.TrackReadError,
		Msg:  msg,
		Err:  fmt.Errorf("read of import runs failed: %w", err),
	}
}
