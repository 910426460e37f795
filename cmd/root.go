package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/huangsam/locviz/internal/contract"
	"github.com/huangsam/locviz/internal/iocache"
	"github.com/huangsam/locviz/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// cacheManager is the global persistence manager instance.
var cacheManager contract.CacheManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "locviz",
	Short:              "Explore lines of code by commit time of day.",
	Long:               `locviz turns a per-line change log into statistics, brushable selections, file composition and a commit narrative.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Cannot read .env file", err)
	}

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("LOCVIZ")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", 0)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("repo-url", schema.DefaultRepoURL)
	viper.SetDefault("type-mode", schema.TypeExtension)
	viper.SetDefault("hit-test", schema.HitTestFull)
	viper.SetDefault("progress", schema.MaxProgress)
	viper.SetDefault("hour-to", 24.0)
	viper.SetDefault("fallback", "yes")
	viper.SetDefault("example-commits", contract.DefaultExampleCommits)
	viper.SetDefault("example-seed", contract.DefaultExampleSeed)
	viper.SetDefault("sort", schema.SortDataset)
	viper.SetDefault("plot-width", contract.DefaultPlotWidth)
	viper.SetDefault("plot-height", contract.DefaultPlotHeight)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("runs-backend", "")
	viper.SetDefault("runs-db-connect", "")
}

// setConfigFile points viper at --config or the default .locviz.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".locviz") // Name of config file (without extension)
	viper.SetConfigType("yaml")    // We'll use YAML format
	viper.AddConfigPath(".")       // Look in the current directory
	viper.AddConfigPath("$HOME")   // Look in the home directory
}

// readConfigFile merges the config file, tolerating its absence.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, args []string, defaultSource string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}
	if err := contract.SetLogLevel(viper.GetString("log-level")); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.SourceStr = args[0]
	} else {
		input.SourceStr = defaultSource
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect, cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
// Local flags are bound here because several commands define the same keys.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	if err := viperBind(cmd); err != nil {
		return err
	}
	return sharedSetup(rootCtx, args, contract.DefaultSource)
}

func viperBind(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding %s flags: %w", cmd.Name(), err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetCacheManager sets the global cache manager.
func SetCacheManager(mgr contract.CacheManager) {
	cacheManager = mgr
}
