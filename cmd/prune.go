package cmd

import (
	"github.com/spf13/cobra"

	"github.com/parleychat/parley/internal/session"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired login sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		sessions := session.NewStore(a.db, a.logger.With("component", "session"))
		pruned, err := sessions.PruneExpired(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("pruned %d expired session(s)\n", pruned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
