package iofetch

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// RequestError creates an error for a download that could not complete.
func RequestError(url string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{url}

	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("download of %s failed: %w", url, err),
	}
}

// StatusError creates an error for a non-200 response.
func StatusError(url string, status int) error {
	msg := "Server returned status %d for <em>%s</em>"
	vars := []any{status, url}

	return &gn.Error{
		Code: errcode.FetchStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("download of %s: unexpected status %d", url, status),
	}
}

// WriteError creates an error for a failed write of downloaded data.
func WriteError(path string, err error) error {
	msg := "Cannot write download to <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.FetchWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("write of %s failed: %w", path, err),
	}
}

// UnzipError creates an error for a broken archive.
func UnzipError(path string, err error) error {
	msg := "Cannot extract archive <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.FetchUnzipError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("extraction of %s failed: %w", path, err),
	}
}

// PayloadError creates an error for an archive without a data file.
func PayloadError(path string) error {
	msg := "Archive <em>%s</em> has no data file"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.FetchPayloadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no .txt payload in %s", path),
	}
}
