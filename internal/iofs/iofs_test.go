package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	// repeated calls keep the layout
	for range 2 {
		require.NoError(t, EnsureDirs(home))
	}

	tests := []struct {
		msg string
		dir []string
	}{
		{"config", []string{".config", "gngeo"}},
		{"cache", []string{".cache", "gngeo"}},
		{"downloads", []string{".cache", "gngeo", "tmp"}},
		{"logs", []string{".local", "share", "gngeo", "logs"}},
	}

	for _, v := range tests {
		info, err := os.Stat(filepath.Join(append([]string{home}, v.dir...)...))
		require.NoError(t, err, v.msg)
		assert.True(t, info.IsDir(), v.msg)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), v.msg)
	}
}

func TestEnsureConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, EnsureDirs(home))
	path := filepath.Join(home, ".config", "gngeo", "config.yaml")

	require.NoError(t, EnsureConfigFile(home))
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConfigYAML, string(bs))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// user edits survive
	edited := "database:\n  driver: sqlite\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0644))
	require.NoError(t, EnsureConfigFile(home))
	bs, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, edited, string(bs))
}

func TestEmbedded(t *testing.T) {
	for _, section := range []string{
		"database:", "import:", "search:", "cache:", "sync:", "hierarchy:", "log:",
	} {
		assert.Contains(t, ConfigYAML, section)
	}
	assert.Contains(t, string(CountriesYAML),
		`{code: "IT", name: "Italy", continent: "EU"}`)
}
