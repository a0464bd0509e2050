/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gngeo/internal/iofs"
	"github.com/gnames/gngeo/internal/iologger"
	app "github.com/gnames/gngeo/pkg"
	"github.com/gnames/gngeo/pkg/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the root command with all subcommands attached.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "gngeo",
		Short:   "GNgeo keeps a local gazetteer of GeoNames places",
		Long: `GNgeo keeps a local gazetteer of GeoNames places in PostgreSQL
or SQLite and answers search, proximity and hierarchy queries.

Main features:
  - Schema Management: create and migrate the gazetteer schema
  - Synchronization: full country dumps and daily diff feeds
  - Search: names, alternate names, nearest places, bounding boxes
  - Hierarchy: administrative ancestors and children of a place

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GNGEO_*, also read from .env)
  3. Config file (~/.config/gngeo/config.yaml)
  4. Built-in defaults

Environment variables use underscores for nested fields
(database.host becomes GNGEO_DATABASE_HOST).`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "gngeo version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for gngeo")

	rootCmd.AddCommand(
		getCreateCmd(),
		getMigrateCmd(),
		getOptimizeCmd(),
		getCountriesCmd(),
		getRemoveCmd(),
		getSyncCmd(),
		getImportCmd(),
		getAdminCmd(),
		getAncestorsCmd(),
		getSearchCmd(),
		getImportsCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// .env is optional
	if err = godotenv.Load(); err == nil {
		slog.Info("Environment loaded from .env")
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, keeping the records
	// written so far.
	if err = iologger.Init(config.LogDir(cfg.HomeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ConfigReadError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are allowed.
	// These match the fields included in config.ToOptions() - i.e., persistent
	// configuration that can be stored in config.yaml.
	v.SetEnvPrefix("GNGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "GNGEO_DATABASE_DRIVER")
	v.BindEnv("database.host", "GNGEO_DATABASE_HOST")
	v.BindEnv("database.port", "GNGEO_DATABASE_PORT")
	v.BindEnv("database.user", "GNGEO_DATABASE_USER")
	v.BindEnv("database.password", "GNGEO_DATABASE_PASSWORD")
	v.BindEnv("database.database", "GNGEO_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "GNGEO_DATABASE_SSL_MODE")
	v.BindEnv("database.sqlite_path", "GNGEO_DATABASE_SQLITE_PATH")
	v.BindEnv("database.batch_size", "GNGEO_DATABASE_BATCH_SIZE")
	v.BindEnv("database.chunk_size", "GNGEO_DATABASE_CHUNK_SIZE")

	// Import configuration
	v.BindEnv("import.base_url", "GNGEO_IMPORT_BASE_URL")
	v.BindEnv("import.temp_dir", "GNGEO_IMPORT_TEMP_DIR")
	v.BindEnv("import.gc_every", "GNGEO_IMPORT_GC_EVERY")
	v.BindEnv("import.alternate_names", "GNGEO_IMPORT_ALTERNATE_NAMES")
	v.BindEnv("import.languages", "GNGEO_IMPORT_LANGUAGES")

	// Search and cache configuration
	v.BindEnv("search.use_fulltext", "GNGEO_SEARCH_USE_FULLTEXT")
	v.BindEnv("search.default_limit", "GNGEO_SEARCH_DEFAULT_LIMIT")
	v.BindEnv("cache.addr", "GNGEO_CACHE_ADDR")
	v.BindEnv("cache.password", "GNGEO_CACHE_PASSWORD")
	v.BindEnv("cache.db", "GNGEO_CACHE_DB")
	v.BindEnv("cache.ttl_sec", "GNGEO_CACHE_TTL_SEC")

	v.BindEnv("sync.hour", "GNGEO_SYNC_HOUR")
	v.BindEnv("hierarchy.max_depth", "GNGEO_HIERARCHY_MAX_DEPTH")

	// Log configuration
	v.BindEnv("log.level", "GNGEO_LOG_LEVEL")
	v.BindEnv("log.format", "GNGEO_LOG_FORMAT")
	v.BindEnv("log.destination", "GNGEO_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "GNGEO_JOBS_NUMBER")

	v.AutomaticEnv()
}
