package cmd

import (
	"github.com/huangsam/locviz/core"
	"github.com/huangsam/locviz/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd prints the corpus statistics.
var statsCmd = &cobra.Command{
	Use:   "stats [loc-file]",
	Short: "Show the six summary statistics of a change log.",
	Long: `Load a per-line change log (CSV or Parquet) and print its summary statistics:
commits, files, the longest file, the max file length, and the most active
time of day and day of week.

When the file cannot be read, a generated example dataset is used instead
unless --fallback=no is given.

Examples:
  # Summarize loc.csv in the current directory
  locviz stats

  # Machine-readable summary
  locviz stats data/loc.csv --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute stats", err)
		}
	},
}

// commitsCmd lists commits.
var commitsCmd = &cobra.Command{
	Use:   "commits [loc-file]",
	Short: "List commits reconstructed from the change log.",
	Long: `Group rows by commit and list each commit with its author, timestamp,
hour of day, total lines and number of files.

Examples:
  # Largest commits first
  locviz commits --sort lines --limit 10

  # Export to CSV
  locviz commits --output csv --output-file commits.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCommits(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list commits", err)
		}
	},
}

// selectCmd applies the slider and brush.
var selectCmd = &cobra.Command{
	Use:   "select [loc-file]",
	Short: "Filter commits by time and brush, then show the language breakdown.",
	Long: `Apply the time slider (--progress) and an optional brush, then print the
selected commits and the line-type breakdown.

The brush is given either in plot pixels with --region or in data space with
--from/--to and --hour-from/--hour-to. Without a brush the breakdown covers
every visible commit.

Examples:
  # Commits made in the first half of the history
  locviz select --progress 50

  # Brush January 2024 between 9am and 5pm
  locviz select --from 2024-01-01T00:00:00Z --to 2024-02-01T00:00:00Z --hour-from 9 --hour-to 17`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSelect(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run selection", err)
		}
	},
}

// filesCmd shows the file composition.
var filesCmd = &cobra.Command{
	Use:   "files [loc-file]",
	Short: "Show the file composition of the selected or visible commits.",
	Long: `List files touched by the effective commits, largest first, with one dot
per line colored by line type.

Examples:
  # Files touched in the first quarter of the history
  locviz files --progress 25 --limit 20`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFiles(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot show files", err)
		}
	},
}

// storyCmd prints the scroll narrative.
var storyCmd = &cobra.Command{
	Use:   "story [loc-file]",
	Short: "Print the commit narrative, one paragraph per commit.",
	Long: `Generate the scrollytelling narrative in dataset order. The first commit
is introduced as the first one; every other step describes another glorious commit.

Examples:
  locviz story --limit 5`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStory(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build story", err)
		}
	},
}

// chartCmd renders the HTML page.
var chartCmd = &cobra.Command{
	Use:   "chart [loc-file]",
	Short: "Render the interactive page to an HTML file.",
	Long: `Render the scatter plot, the language breakdown and the file composition
into a standalone HTML page using the current slider and brush.

Examples:
  # Write locviz.html and open it
  locviz chart --open

  # Custom size and location
  locviz chart --plot-width 1200 --plot-height 700 --output-file out/commits.html`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render chart", err)
		}
	},
}
