package cmd

import (
	"github.com/huangsam/gitmine/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the gitmine MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents run gitmine reports as tools.

Tools: get_author_churn, get_file_churn, get_file_authors, get_file_coupling,
get_module_churn, get_branch_tips and get_report. Flags given here are the defaults
every tool call starts from.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
