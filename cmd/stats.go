package cmd

import (
	"github.com/spf13/cobra"

	"github.com/parleychat/parley/internal/message"
	"github.com/parleychat/parley/internal/user"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show user and message statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		users := user.NewStore(a.db, a.logger.With("component", "user"))
		messages := message.NewStore(a.db, a.logger.With("component", "message"))

		userCount, err := users.Count(ctx)
		if err != nil {
			return err
		}
		messageCount, err := messages.TotalCount(ctx)
		if err != nil {
			return err
		}

		cmd.Printf("users:    %d\n", userCount)
		cmd.Printf("messages: %d\n", messageCount)

		stats, err := messages.ChannelStats(ctx)
		if err != nil {
			return err
		}
		if len(stats) > 0 {
			cmd.Println("\nchannels:")
			for _, s := range stats {
				cmd.Printf("  %-24s %8d  last %s\n",
					s.Channel, s.MessageCount, s.LastPostedAt.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
