package cmd

import (
	"github.com/huangsam/locviz/core"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/spf13/cobra"
)

// generateCmd produces a change log.
var generateCmd = &cobra.Command{
	Use:   "generate [repo-path]",
	Short: "Produce a per-line change log from a Git repository.",
	Long: `Blame every tracked file at HEAD and write one row per line with its
commit, author, timestamp, indentation depth and length.

With --example, a deterministic synthetic change log is generated instead.

Examples:
  # Build loc.csv for the current repository
  locviz generate --output-file loc.csv

  # Skip vendored code
  locviz generate ~/src/app --exclude vendor/,node_modules/ --output-file loc.csv

  # Synthetic data for demos
  locviz generate --example --example-commits 200 --output parquet --output-file loc.parquet`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viperBind(cmd); err != nil {
			return err
		}
		return sharedSetup(rootCtx, args, ".")
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGenerate(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot generate change log", err)
		}
	},
}
