// Package iologger configures the slog default logger of gngeo.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	gngeo "github.com/gnames/gngeo/pkg"
	"github.com/gnames/gngeo/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "gngeo.log"

// Init sets the default slog logger according to cfg. When the
// destination is "file" the log goes to LogFile in logDir, appended or
// truncated depending on appendLog. Every record carries the version of
// gngeo.
func Init(logDir string, cfg config.LogConfig, appendLog bool) error {
	w, err := writer(logDir, cfg.Destination, appendLog)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text", "tint":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler).With("version", gngeo.Version)
	slog.SetDefault(logger)
	return nil
}

func writer(logDir, destination string, appendLog bool) (io.Writer, error) {
	switch destination {
	case "stdout":
		return os.Stdout, nil
	case "file":
	default:
		return os.Stderr, nil
	}

	logPath := filepath.Join(logDir, LogFile)
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendLog {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(logPath, flags, 0644)
	if err != nil {
		return nil, LogFileError(logPath, err)
	}
	return file, nil
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
