// Package cli wires lumina's cobra commands and the interactive board.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "lumina",
	Short: "Lumina - a personal task tracker with AI assist",
	Long: `Lumina is a personal task tracker that lives in your terminal.

Running lumina with no arguments opens the interactive board: create, edit,
complete, delete, and filter tasks, and optionally ask an AI assistant to
rewrite a description or propose subtasks.

Subcommands mirror the board's actions for scripting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lumina %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
