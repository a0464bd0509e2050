package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gngeo"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gngeo by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gngeo by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gngeo/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gngeo/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// TempDir returns the directory for downloads and extracted archives.
// Import.TempDir wins when set.
func (c *Config) TempDir() string {
	if c.Import.TempDir != "" {
		return c.Import.TempDir
	}
	return filepath.Join(CacheDir(c.HomeDir), "tmp")
}
