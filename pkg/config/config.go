// Package config provides configuration management for gngeo.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode,
//     sqlite_path, batch_size, chunk_size
//   - Import: base_url, temp_dir, gc_every, alternate_names, languages
//   - Search: use_fulltext, default_limit
//   - Cache: addr, password, db, ttl_sec
//   - Sync: hour
//   - Hierarchy: max_depth
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Import.Countries (per-command filter)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNGEO_ prefix with underscores for nesting:
//
//	GNGEO_DATABASE_HOST=localhost
//	GNGEO_DATABASE_CHUNK_SIZE=500
//	GNGEO_SEARCH_USE_FULLTEXT=true
//	GNGEO_JOBS_NUMBER=4
package config

import (
	"runtime"
)

const (
	// MaxSearchLimit is the upper bound for any search result size.
	MaxSearchLimit = 1000

	// DefaultBaseURL is the location of the GeoNames dump files.
	DefaultBaseURL = "https://download.geonames.org/export/dump/"
)

// Config represents the complete gngeo configuration.
type Config struct {
	// Database contains connection and bulk-write settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings for downloading and ingesting dumps.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// Search contains settings of the read path.
	Search SearchConfig `mapstructure:"search" yaml:"search"`

	// Cache configures optional Redis caching of search results.
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`

	Sync SyncConfig `mapstructure:"sync" yaml:"sync"`

	Hierarchy HierarchyConfig `mapstructure:"hierarchy" yaml:"hierarchy"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of countries processed concurrently
	// during a full sync. Default value is set according to the number of
	// available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains store connection parameters.
type DatabaseConfig struct {
	// Driver selects the backend: "postgres" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// SQLitePath is the database file used when Driver is "sqlite".
	// ":memory:" keeps the database in memory.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// BatchSize is the number of rows read from a dump before they are
	// reconciled against the store.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// ChunkSize is the number of rows in one multi-row INSERT or CASE
	// UPDATE statement. It is further capped by the backend parameter
	// limit, so wide tables may use smaller chunks.
	ChunkSize int `mapstructure:"chunk_size" yaml:"chunk_size"`
}

// ImportConfig contains settings for fetching and ingesting dumps.
type ImportConfig struct {
	// BaseURL is the remote directory with dump files.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TempDir keeps downloaded and extracted files while an import runs.
	// Empty value means a "tmp" directory inside the cache directory.
	TempDir string `mapstructure:"temp_dir" yaml:"temp_dir"`

	// GCEvery forces garbage collection after this number of batches.
	GCEvery int `mapstructure:"gc_every" yaml:"gc_every"`

	// AlternateNames enables daily alternate-name feeds during sync.
	AlternateNames bool `mapstructure:"alternate_names" yaml:"alternate_names"`

	// Languages limits imported alternate names to these ISO codes.
	// Empty slice imports all languages.
	Languages []string `mapstructure:"languages" yaml:"languages"`

	// Countries limits place imports to these country codes.
	// Runtime-only field.
	Countries []string `mapstructure:"countries" yaml:"countries"`
}

// SearchConfig contains settings of the search engine.
type SearchConfig struct {
	// UseFullText enables native full-text matching where the backend
	// supports it.
	UseFullText bool `mapstructure:"use_fulltext" yaml:"use_fulltext"`

	// DefaultLimit is used when a query does not provide a limit.
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit"`
}

// CacheConfig configures the Redis search cache.
// Empty Addr disables caching.
type CacheConfig struct {
	Addr     string `mapstructure:"addr"     yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db"       yaml:"db"`
	// TTLSec is the lifetime of cached results in seconds.
	TTLSec int `mapstructure:"ttl_sec" yaml:"ttl_sec"`
}

// SyncConfig contains settings of the sync scheduler.
type SyncConfig struct {
	// Hour (0-23, local time) when the daemon mode starts a daily sync.
	Hour int `mapstructure:"hour" yaml:"hour"`
}

// HierarchyConfig contains settings of the ancestor resolver.
type HierarchyConfig struct {
	// MaxDepth bounds recursion over explicit hierarchy edges.
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       5432,
			User:       "postgres",
			Password:   "postgres",
			Database:   "gngeo",
			SSLMode:    "disable",
			SQLitePath: "gngeo.sqlite",
			BatchSize:  1_000,
			ChunkSize:  500,
		},
		Import: ImportConfig{
			BaseURL: DefaultBaseURL,
			GCEvery: 50,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
		},
		Cache: CacheConfig{
			TTLSec: 3600,
		},
		Sync: SyncConfig{
			Hour: 3,
		},
		Hierarchy: HierarchyConfig{
			MaxDepth: 32,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
