package cmd

import (
	"github.com/huangsam/locviz/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [loc-file]",
	Short: "Start the locviz MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents load change logs,
brush and slide through commits, and read the breakdown, files and story.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
