package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
)

// ModelSelectorCmp shows the available models with the selected one
// highlighted.
type ModelSelectorCmp struct {
	names    []string
	selected string
	width    int
}

func NewModelSelectorCmp() *ModelSelectorCmp {
	return &ModelSelectorCmp{}
}

func (m *ModelSelectorCmp) SetNames(names []string) {
	m.names = names
}

func (m *ModelSelectorCmp) SetSelected(name string) {
	m.selected = name
}

func (m *ModelSelectorCmp) Selected() string {
	return m.selected
}

func (m *ModelSelectorCmp) SetWidth(width int) {
	m.width = width
}

func (m *ModelSelectorCmp) View() string {
	if len(m.names) == 0 {
		return styles.Muted.Render("no models configured")
	}
	items := make([]string, 0, len(m.names))
	for _, name := range m.names {
		if name == m.selected {
			items = append(items, styles.Selected.Render(name))
		} else {
			items = append(items, styles.Unselected.Render(name))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Left, items...)
	if m.width > 0 && lipgloss.Width(row) > m.width {
		// fall back to the selected model only
		row = styles.Selected.Render(m.selected) + styles.Muted.Render(" "+strings.Repeat("·", len(m.names)-1))
		row = ansi.Truncate(row, m.width, "…")
	}
	return row
}
