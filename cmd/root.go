// Package cmd contains the parley CLI. Following the pattern used by
// kubectl, hugo, and other standard Go CLI tools, all application
// logic lives here, leaving main.go as a minimal entry point.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley - chat data-access toolkit",
	Long: `Parley manages the PostgreSQL backing store of a small chat service:
users, login sessions, and messages.

All database work runs through a governed connection pool that retries
deadlock-aborted operations and discards connections reported as
poisoned.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
