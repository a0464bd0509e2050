package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseDriver sets the store backend.
// Valid values: "postgres", "sqlite".
func OptDatabaseDriver(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		if isValidEnum("Database.Driver", s) {
			c.Database.Driver = s
		}
	}
}

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseSQLitePath sets the SQLite database file.
func OptDatabaseSQLitePath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("SQLite Path", s) {
			c.Database.SQLitePath = s
		}
	}
}

// OptDatabaseBatchSize sets the number of rows reconciled at once.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptDatabaseChunkSize sets the number of rows per bulk statement.
func OptDatabaseChunkSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Chunk Size", i) {
			c.Database.ChunkSize = i
		}
	}
}

// OptImportBaseURL sets the remote location of dump files.
// A trailing slash is added when missing.
func OptImportBaseURL(s string) Option {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return func(c *Config) {
		if isValidString("Import Base URL", s) {
			c.Import.BaseURL = s
		}
	}
}

// OptImportTempDir sets the directory for downloads and extracted files.
func OptImportTempDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Import Temp Dir", s) {
			c.Import.TempDir = s
		}
	}
}

// OptImportGCEvery sets how many batches pass between forced garbage
// collections.
func OptImportGCEvery(i int) Option {
	return func(c *Config) {
		if isValidInt("GC Every", i) {
			c.Import.GCEvery = i
		}
	}
}

// OptImportAlternateNames toggles alternate-name feeds during sync.
func OptImportAlternateNames(b bool) Option {
	return func(c *Config) {
		c.Import.AlternateNames = b
	}
}

// OptImportLanguages sets ISO language codes for alternate names.
func OptImportLanguages(ss []string) Option {
	res := normalizeList(ss, strings.ToLower)
	return func(c *Config) {
		if len(res) > 0 {
			c.Import.Languages = res
		}
	}
}

// OptImportCountries sets the country filter for place imports.
// Runtime-only field - not in ToOptions().
func OptImportCountries(ss []string) Option {
	res := normalizeList(ss, strings.ToUpper)
	return func(c *Config) {
		if len(res) > 0 {
			c.Import.Countries = res
		}
	}
}

// OptSearchUseFullText toggles native full-text matching.
func OptSearchUseFullText(b bool) Option {
	return func(c *Config) {
		c.Search.UseFullText = b
	}
}

// OptSearchDefaultLimit sets the result size used when a query has none.
// Values above MaxSearchLimit are rejected.
func OptSearchDefaultLimit(i int) Option {
	return func(c *Config) {
		if !isValidInt("Search Default Limit", i) {
			return
		}
		if i > MaxSearchLimit {
			warnLimit(i)
			return
		}
		c.Search.DefaultLimit = i
	}
}

// OptCacheAddr sets the Redis address (host:port).
func OptCacheAddr(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Address", s) {
			c.Cache.Addr = s
		}
	}
}

// OptCachePassword sets the Redis password.
func OptCachePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Cache Password", s) {
			c.Cache.Password = s
		}
	}
}

// OptCacheDB sets the Redis logical database.
func OptCacheDB(i int) Option {
	return func(c *Config) {
		if i >= 0 {
			c.Cache.DB = i
		}
	}
}

// OptCacheTTLSec sets the lifetime of cached results.
func OptCacheTTLSec(i int) Option {
	return func(c *Config) {
		if isValidInt("Cache TTL", i) {
			c.Cache.TTLSec = i
		}
	}
}

// OptSyncHour sets the hour when daemon mode runs a sync.
func OptSyncHour(i int) Option {
	return func(c *Config) {
		if i < 0 || i > 23 {
			warnHour(i)
			return
		}
		c.Sync.Hour = i
	}
}

// OptHierarchyMaxDepth bounds recursion over hierarchy edges.
func OptHierarchyMaxDepth(i int) Option {
	return func(c *Config) {
		if isValidInt("Hierarchy Max Depth", i) {
			c.Hierarchy.MaxDepth = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}

func normalizeList(ss []string, fn func(string) string) []string {
	res := make([]string, 0, len(ss))
	seen := make(map[string]struct{}, len(ss))
	for _, s := range ss {
		s = fn(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		res = append(res, s)
	}
	return res
}
