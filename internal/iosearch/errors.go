package iosearch

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// OptionsError creates an error for query options that failed
// validation.
func OptionsError(err error) error {
	msg := "Invalid search options: %s"
	vars := []any{err.Error()}

	return &gn.Error{
		Code: errcode.SearchOptionsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("search options: %w", err),
	}
}

// QueryError creates an error for a failed search query.
func QueryError(op string, err error) error {
	msg := "Search <em>%s</em> failed"
	vars := []any{op}

	return &gn.Error{
		Code: errcode.SearchQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("search %s: %w", op, err),
	}
}
