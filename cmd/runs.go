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

// runsConfigSetup resolves the run tracking backend without opening it.
// An empty backend means tracking is disabled.
func runsConfigSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.NoneBackend
	if s := viper.GetString("runs-backend"); s != "" {
		backend = schema.DatabaseBackend(s)
	}
	connStr := viper.GetString("runs-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok || backend == schema.BoltBackend {
		return fmt.Errorf("invalid runs backend '%s'", backend)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// runsSetup opens the run store for status and export.
func runsSetup(_ *cobra.Command, _ []string) error {
	if err := runsConfigSetup(); err != nil {
		return err
	}
	// Initialize stores with the loaded config (no row caching for run commands)
	if err := iocache.InitStores(schema.NoneBackend, "", cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}
	return nil
}

// runsCmd focused on run history management.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of dataset loads",
	Long: `Manage the optional history of dataset loads.

When --runs-backend is set, every load records its source, content hash,
row and commit counts, whether it was served from cache or fell back to
example data, and the resulting statistics.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run history statistics
  export  - Export runs to Parquet for analytics
  clear   - Remove all run history
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  LOCVIZ_RUNS_BACKEND=sqlite locviz runs status

  # Export for analysis in pandas/DuckDB
  locviz runs export --runs-backend sqlite --output-file history`,
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete every recorded run.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  locviz runs export --runs-backend sqlite --output-file backup
  locviz runs clear --runs-backend sqlite`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return runsConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsStatusCmd shows run history status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, the number of recorded runs, the newest and oldest
run timestamps, and the storage size.

Examples:
  locviz runs status --runs-backend sqlite`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports the run history to Parquet.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export every recorded run to <output-file>.runs.parquet.

Requires: --output-file parameter

Examples:
  locviz runs export --runs-backend sqlite --output-file history
  duckdb -c "SELECT source, rows, cached FROM read_parquet('history.runs.parquet')"`,
	PreRunE: runsSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExportRuns(os.Stdout, iocache.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  locviz runs migrate --runs-backend sqlite

  # Rollback to initial state
  locviz runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return runsConfigSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		result, err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, viper.GetInt("target-version"))
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		fmt.Println(result)
	},
}
