package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/opencode-ai/agentchat/internal/config"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered in the model selector",
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		if _, err := loadConfig(cmd, debug); err != nil {
			return err
		}

		registry := config.Registry()
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("ID", "NAME", "PROVIDER")
		for _, m := range registry.AgentModels {
			t.Row(string(m.ID), m.Name, string(m.Provider))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
