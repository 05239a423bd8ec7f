package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/opencode-ai/agentchat/internal/conversation"
	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/spf13/cobra"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"ls"},
	Short:   "List stored conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		_, conn, err := bootstrap(cmd, debug)
		if err != nil {
			return err
		}
		defer conn.Close()

		conversations, err := conversation.NewService(cmd.Context(), db.New(conn)).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(conversations) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet.")
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "TITLE", "MODEL", "MESSAGES", "UPDATED")
		for _, c := range conversations {
			t.Row(
				c.ID,
				c.Title,
				string(c.ModelID),
				strconv.FormatInt(c.MessageCount, 10),
				time.Unix(c.UpdatedAt, 0).Format(time.DateTime),
			)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conversationsCmd)
}
