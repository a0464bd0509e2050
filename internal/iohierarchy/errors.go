package iohierarchy

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// ErrPlaceNotFound is returned when a place is missing or deleted.
var ErrPlaceNotFound = errors.New("place not found")

// PlaceNotFoundError creates an error for a missing or deleted place.
func PlaceNotFoundError(id int64) error {
	msg := "Place <em>%d</em> does not exist or is deleted"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.HierarchyPlaceNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("place %d: %w", id, ErrPlaceNotFound),
	}
}

// QueryError creates an error for a failed hierarchy query.
func QueryError(id int64, err error) error {
	msg := "Cannot resolve hierarchy of place <em>%d</em>"
	vars := []any{id}

	return &gn.Error{
		Code: errcode.HierarchyQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("hierarchy query for %d failed: %w", id, err),
	}
}
