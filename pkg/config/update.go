package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, Import.Countries).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Database.Driver
	if s != "" {
		res = append(res, OptDatabaseDriver(s))
	}
	s = c.Database.Host
	if s != "" {
		res = append(res, OptDatabaseHost(s))
	}
	i = c.Database.Port
	if i > 0 {
		res = append(res, OptDatabasePort(i))
	}
	s = c.Database.User
	if s != "" {
		res = append(res, OptDatabaseUser(s))
	}
	s = c.Database.Password
	if s != "" {
		res = append(res, OptDatabasePassword(s))
	}
	s = c.Database.Database
	if s != "" {
		res = append(res, OptDatabaseDatabase(s))
	}
	s = c.Database.SSLMode
	if s != "" {
		res = append(res, OptDatabaseSSLMode(s))
	}
	s = c.Database.SQLitePath
	if s != "" {
		res = append(res, OptDatabaseSQLitePath(s))
	}
	i = c.Database.BatchSize
	if i > 0 {
		res = append(res, OptDatabaseBatchSize(i))
	}
	i = c.Database.ChunkSize
	if i > 0 {
		res = append(res, OptDatabaseChunkSize(i))
	}

	s = c.Import.BaseURL
	if s != "" {
		res = append(res, OptImportBaseURL(s))
	}
	s = c.Import.TempDir
	if s != "" {
		res = append(res, OptImportTempDir(s))
	}
	i = c.Import.GCEvery
	if i > 0 {
		res = append(res, OptImportGCEvery(i))
	}
	res = append(res, OptImportAlternateNames(c.Import.AlternateNames))
	if len(c.Import.Languages) > 0 {
		res = append(res, OptImportLanguages(c.Import.Languages))
	}

	res = append(res, OptSearchUseFullText(c.Search.UseFullText))
	i = c.Search.DefaultLimit
	if i > 0 {
		res = append(res, OptSearchDefaultLimit(i))
	}

	s = c.Cache.Addr
	if s != "" {
		res = append(res, OptCacheAddr(s))
	}
	s = c.Cache.Password
	if s != "" {
		res = append(res, OptCachePassword(s))
	}
	i = c.Cache.DB
	if i > 0 {
		res = append(res, OptCacheDB(i))
	}
	i = c.Cache.TTLSec
	if i > 0 {
		res = append(res, OptCacheTTLSec(i))
	}

	res = append(res, OptSyncHour(c.Sync.Hour))

	i = c.Hierarchy.MaxDepth
	if i > 0 {
		res = append(res, OptHierarchyMaxDepth(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func warnLimit(i int) {
	gn.Warn(
		"<em>Search Default Limit</em> cannot exceed %d, ignoring %d",
		MaxSearchLimit, i,
	)
}

func warnHour(i int) {
	gn.Warn("<em>Sync Hour</em> has to be between 0 and 23, ignoring %d", i)
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Database.Driver": {"postgres": s, "sqlite": s},
		"Database.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
