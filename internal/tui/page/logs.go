package page

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/agentchat/internal/tui/components/logs"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
)

var LogsPage PageID = "logs"

type logsPage struct {
	width, height int
	table         *logs.TableCmp
}

func NewLogsPage() tea.Model {
	return &logsPage{table: logs.NewTableCmp()}
}

func (p *logsPage) Init() tea.Cmd {
	return p.table.Init()
}

func (p *logsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		p.SetSize(msg.Width, msg.Height)
		return p, nil
	}
	return p, p.table.Update(msg)
}

func (p *logsPage) View() string {
	title := styles.Title.Render("Logs")
	return styles.EditorBorder.
		Width(p.width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, p.table.View()))
}

func (p *logsPage) SetSize(width, height int) {
	p.width, p.height = width, height
	// border and title
	p.table.SetSize(width-2, max(height-3, 1))
}

func (p *logsPage) GetSize() (int, int) {
	return p.width, p.height
}

func (p *logsPage) BindingKeys() []key.Binding {
	return p.table.BindingKeys()
}
