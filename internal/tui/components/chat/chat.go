package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
	"github.com/opencode-ai/agentchat/internal/version"
)

const splashHint = "Ask the agent anything. ctrl+s sends, ctrl+o switches the model."

func separator(width int) string {
	return styles.Separator.Render(strings.Repeat("─", max(width, 1)))
}

func logo(width int) string {
	name := styles.Title.Render(styles.ChatIcon + " Agent Chat")
	v := styles.Muted.Render(" " + version.Version)
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Left, name, v), width, "…")
}

// splash is drawn in place of the history while it is empty or loading.
func splash(width, height int, loading bool, frame string) string {
	hint := styles.Muted.Render(splashHint)
	if loading {
		hint = styles.Muted.Render(frame + " Loading conversation…")
	}
	content := lipgloss.JoinVertical(lipgloss.Center, logo(width), "", hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
