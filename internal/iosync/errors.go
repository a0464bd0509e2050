package iosync

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// CountriesError creates an error for a failed read of enabled countries.
func CountriesError(err error) error {
	msg := "Cannot read enabled countries"

	return &gn.Error{
		Code: errcode.SyncCountriesError,
		Msg:  msg,
		Err:  fmt.Errorf("cannot list enabled countries: %w", err),
	}
}

// StampError creates an error for a failed import stamp.
func StampError(codes []string, err error) error {
	msg := "Cannot record import time of %d countries"
	vars := []any{len(codes)}

	return &gn.Error{
		Code: errcode.SyncStampError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("stamp of %v failed: %w", codes, err),
	}
}

// DailyError creates an error for a failed daily feed.
func DailyError(feed string, err error) error {
	msg := "Daily feed <em>%s</em> failed"
	vars := []any{feed}

	return &gn.Error{
		Code: errcode.SyncDailyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("daily feed %s failed: %w", feed, err),
	}
}

// AllCountriesFailedError creates an error for a sync where no country
// succeeded.
func AllCountriesFailedError(count int) error {
	msg := "Synchronization of all %d countries failed"
	vars := []any{count}

	return &gn.Error{
		Code: errcode.SyncAllCountriesFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d countries failed", count),
	}
}
