package iocache

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// ConnectError creates an error for an unreachable Redis server.
func ConnectError(addr string, err error) error {
	msg := "Cannot connect to the search cache at <em>%s</em>"
	vars := []any{addr}

	return &gn.Error{
		Code: errcode.SearchCacheError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("redis ping %s failed: %w", addr, err),
	}
}

// CacheError creates an error for a failed cache operation.
func CacheError(op string, err error) error {
	msg := "Search cache operation <em>%s</em> failed"
	vars := []any{op}

	return &gn.Error{
		Code: errcode.SearchCacheError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cache %s: %w", op, err),
	}
}
