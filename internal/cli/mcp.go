package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/drapaimern/lumina/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing task operations over stdio",
	Long: `Run a Model Context Protocol server over stdio.

AI coding assistants connected to it can add, list, toggle, and delete
tasks, and read usage stats, against the same store the board uses.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Repo == nil {
			return fmt.Errorf("app not initialized")
		}
		server := mcp.NewServer(Repo, EventLog, MetricsCalc, appVersion)
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
