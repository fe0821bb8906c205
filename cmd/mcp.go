package cmd

import (
	"github.com/spf13/cobra"

	"github.com/finscore/finscore/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the finscore MCP server",
	Long:    `Launch an MCP server on stdio that allows AI agents to score statements via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
