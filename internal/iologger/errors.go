package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/errcode"
)

// LogFileError is returned when gngeo.log cannot be opened.
func LogFileError(path string, err error) error {
	msg := `Cannot open log file <em>%s</em>

<em>How to fix:</em>
  Set <em>log.destination</em> to stderr or stdout in config.yaml,
  or GNGEO_LOG_DESTINATION in the environment.`
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: []any{path},
		Err:  fmt.Errorf("open log %s: %w", path, err),
	}
}
