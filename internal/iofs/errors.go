package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// DirError is returned when one of gngeo directories cannot be made.
func DirError(dir string, err error) error {
	return fsError(errcode.CreateDirError,
		"Cannot create directory <em>%s</em>", dir, err)
}

// ConfigWriteError is returned when the default config.yaml cannot be
// written.
func ConfigWriteError(path string, err error) error {
	return fsError(errcode.WriteConfigError,
		"Cannot write default config to <em>%s</em>", path, err)
}

// ConfigReadError is returned when config.yaml cannot be read or has
// values of wrong types.
func ConfigReadError(path string, err error) error {
	msg := `Cannot read config <em>%s</em>

<em>How to fix:</em>
  Correct the file or remove it to get the default config back.`
	return fsError(errcode.ReadConfigError, msg, path, err)
}

// CountriesDataError is returned when the embedded countries.yaml does
// not parse.
func CountriesDataError(err error) error {
	return fsError(errcode.CountriesDataError,
		"Broken country list <em>%s</em>", "countries.yaml", err)
}

func fsError(code gn.ErrorCode, msg, path string, err error) error {
	pc, _, _, _ := runtime.Caller(2)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), path, err),
	}
}
