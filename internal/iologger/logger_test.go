package iologger

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/gnames/gngeo/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	cfg := config.LogConfig{Format: "json", Level: "info", Destination: "file"}
	require.NoError(t, Init(dir, cfg, false))
	slog.Info("hello", "country", "IT")

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"country":"IT"`)
	assert.Contains(t, string(data), `"version"`)

	// a fresh start truncates the file, appending keeps it
	require.NoError(t, Init(dir, cfg, true))
	slog.Info("again")
	data, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "again")

	require.NoError(t, Init(dir, cfg, false))
	data, err = os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestInitMissingDir(t *testing.T) {
	cfg := config.LogConfig{Destination: "file"}
	dir := filepath.Join(t.TempDir(), "nope")
	err := Init(dir, cfg, false)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.CreateLogFileError, gnErr.Code)
	assert.Equal(t, []any{filepath.Join(dir, LogFile)}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, fs.ErrNotExist)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in  string
		out slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, parseLevel(tt.in), tt.in)
	}
}
