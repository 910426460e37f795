package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/iocache"
	"github.com/huangsam/locviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfigSetup resolves the cache backend without opening it.
func cacheConfigSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'", backend)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads minimal configuration needed for cache operations and opens the store.
// This is used by commands that need cache access without full shared setup.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := cacheConfigSetup(); err != nil {
		return err
	}
	// Initialize caching with the loaded config (no run tracking for cache commands)
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, schema.NoneBackend, ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Note: Cache subcommands use minimal initialization instead of the full
// sharedSetup, so no change log is needed for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed change log cache",
	Long: `Manage the cache of parsed change logs that speeds up repeated loads.

Entries are keyed by a hash of the file contents plus the time zone and type
settings, so an edited file is never served stale.

Supported backends: SQLite (default), MySQL, PostgreSQL, Bolt, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached data

Examples:
  # Check cache status
  locviz cache status

  # Clear the cache
  locviz cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached parses",
	Long: `Delete all cached parses from the configured backend.

For SQLite and Bolt: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  locviz cache clear

  # Clear MySQL cache (set connection string via env variable)
  LOCVIZ_CACHE_BACKEND=mysql LOCVIZ_CACHE_DB_CONNECT="..." locviz cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached parses, the newest and oldest
entry timestamps, and the storage size.

Examples:
  locviz cache status`,
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRowStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
