package iocountry

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// UnknownError creates an error for country or continent codes that are
// not in the country list.
func UnknownError(codes []string) error {
	msg := "Unknown country or continent code: <em>%s</em>"
	s := strings.Join(codes, ", ")
	vars := []any{s}

	return &gn.Error{
		Code: errcode.CountryUnknownError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown codes: %s", s),
	}
}

// UpdateError creates an error for a failed change of the registry.
func UpdateError(err error) error {
	msg := "Cannot update the country registry"

	return &gn.Error{
		Code: errcode.CountryUpdateError,
		Msg:  msg,
		Err:  fmt.Errorf("country registry update failed: %w", err),
	}
}

// RemoveError creates an error for a failed removal of country data.
func RemoveError(code string, err error) error {
	msg := "Cannot remove data of country <em>%s</em>"
	vars := []any{code}

	return &gn.Error{
		Code: errcode.CountryRemoveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("removal of %s failed: %w", code, err),
	}
}

// ReadError creates an error for a failed read of the registry.
func ReadError(err error) error {
	msg := "Cannot read the country registry"

	return &gn.Error{
		Code: errcode.CountryReadError,
		Msg:  msg,
		Err:  fmt.Errorf("country registry read failed: %w", err),
	}
}
