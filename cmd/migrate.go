package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parleychat/parley/db"
	"github.com/parleychat/parley/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Applies all pending schema migrations to the configured PostgreSQL
database. Already-applied migrations are skipped; a database left dirty
by an interrupted run is reported instead of migrated over.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		if err := db.Migrate(cfg.PostgresURL()); err != nil {
			return err
		}

		cmd.Println("migrations applied")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
