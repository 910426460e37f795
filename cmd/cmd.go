// Package cmd defines the command-line interface for locviz.
package cmd

import (
	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("repo-url", schema.DefaultRepoURL, "Repository base used to derive commit URLs")
	rootCmd.PersistentFlags().String("tz", "", "Time zone for timestamps without an offset (UTC, Local or an IANA name)")
	rootCmd.PersistentFlags().Bool("convert-tz", false, "Convert every timestamp into --tz instead of keeping its own offset")
	rootCmd.PersistentFlags().String("type-mode", string(schema.TypeExtension), "Fill empty type columns by: extension or language")
	rootCmd.PersistentFlags().String("fallback", "yes", "Use example data when the change log cannot be loaded (yes/no)")
	rootCmd.PersistentFlags().Int("example-commits", contract.DefaultExampleCommits, "Number of commits in generated example data")
	rootCmd.PersistentFlags().Int64("example-seed", contract.DefaultExampleSeed, "Random seed for generated example data")
	rootCmd.PersistentFlags().IntP("limit", "l", 0, "Number of results to display (0 = all)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or bolt or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Selection flags are shared by every command that builds a view session.
	// Shared keys are bound per command in sharedSetupWrapper.
	for _, c := range []*cobra.Command{selectCmd, filesCmd, chartCmd} {
		c.Flags().Float64("progress", schema.MaxProgress, "Time slider position from 0 to 100")
		c.Flags().String("hit-test", string(schema.HitTestFull), "Scales used to hit-test brushes: full or visible")
		c.Flags().String("region", "", "Brush rectangle in plot pixels: x0,y0,x1,y1")
		c.Flags().String("from", "", "Brush start datetime (RFC3339)")
		c.Flags().String("to", "", "Brush end datetime (RFC3339)")
		c.Flags().Float64("hour-from", 0, "Brush start hour of day")
		c.Flags().Float64("hour-to", 24, "Brush end hour of day")
		c.Flags().Int("plot-width", contract.DefaultPlotWidth, "Plot width in pixels")
		c.Flags().Int("plot-height", contract.DefaultPlotHeight, "Plot height in pixels")
	}
	for _, c := range []*cobra.Command{commitsCmd, selectCmd} {
		c.Flags().String("sort", string(schema.SortDataset), "Commit order: dataset or time or lines")
	}

	// Bind all flags of chartCmd to Viper
	chartCmd.Flags().Bool("open", false, "Open the rendered chart in the default browser")
	if err := viper.BindPFlags(chartCmd.Flags()); err != nil {
		contract.LogFatal("Error binding chart flags", err)
	}

	// Bind all flags of generateCmd to Viper
	generateCmd.Flags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	generateCmd.Flags().Bool("example", false, "Generate synthetic rows instead of reading a repository")
	if err := viper.BindPFlags(generateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding generate flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
