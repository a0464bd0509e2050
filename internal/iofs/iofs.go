// Package iofs prepares the file system layout of gngeo and keeps
// embedded data files.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/gngeo/pkg/config"
)

// ConfigYAML is the default config.yaml.
//
//go:embed config.yaml
var ConfigYAML string

// CountriesYAML lists countries of the GeoNames dump with their names
// and continents.
//
//go:embed countries.yaml
var CountriesYAML []byte

// EnsureDirs creates config, cache, log and temporary directories.
func EnsureDirs(homeDir string) error {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
		cfg.TempDir(),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return DirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the default config.yaml unless it exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return ConfigWriteError(configPath, err)
	}

	return nil
}
