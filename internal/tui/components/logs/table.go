package logs

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
)

// TableCmp lists the in-memory log records, newest first.
type TableCmp struct {
	table table.Model
}

func NewTableCmp() *TableCmp {
	columns := []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Level", Width: 5},
		{Title: "Message", Width: 10},
		{Title: "Attributes", Width: 10},
	}
	t := table.New(table.WithColumns(columns), table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(styles.Primary).BorderForeground(styles.Surface1)
	s.Selected = s.Selected.Foreground(styles.Primary)
	t.SetStyles(s)
	return &TableCmp{table: t}
}

func (c *TableCmp) Init() tea.Cmd {
	c.setRows()
	return nil
}

func (c *TableCmp) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(pubsub.Event[logging.LogMessage]); ok {
		c.setRows()
		return nil
	}
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return cmd
}

func (c *TableCmp) View() string {
	return c.table.View()
}

func (c *TableCmp) Rows() int {
	return len(c.table.Rows())
}

func (c *TableCmp) SetSize(width, height int) {
	c.table.SetWidth(width)
	c.table.SetHeight(height)
	columns := c.table.Columns()
	// time and level keep their widths, the rest is shared
	rest := width - columns[0].Width - columns[1].Width - 2*len(columns)
	if rest < 20 {
		rest = 20
	}
	columns[2].Width = rest * 2 / 3
	columns[3].Width = rest - columns[2].Width
	c.table.SetColumns(columns)
}

func (c *TableCmp) BindingKeys() []key.Binding {
	km := c.table.KeyMap
	return []key.Binding{km.LineUp, km.LineDown, km.PageUp, km.PageDown, km.GotoTop, km.GotoBottom}
}

func (c *TableCmp) setRows() {
	records := logging.List()
	slices.SortStableFunc(records, func(a, b logging.LogMessage) int {
		return b.Time.Compare(a.Time)
	})
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		attrs := make([]string, 0, len(r.Attributes))
		for _, a := range r.Attributes {
			attrs = append(attrs, a.Key+"="+a.Value)
		}
		rows = append(rows, table.Row{
			r.Time.Format("15:04:05"),
			r.Level,
			r.Message,
			strings.Join(attrs, " "),
		})
	}
	c.table.SetRows(rows)
}
