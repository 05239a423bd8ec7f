package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
)

// EditorCmp is the draft input. While disabled it keeps its text but ignores
// input.
type EditorCmp struct {
	textarea textarea.Model
	disabled bool
	width    int
}

func NewEditorCmp() *EditorCmp {
	ti := textarea.New()
	ti.Prompt = " "
	ti.Placeholder = "Send a message..."
	ti.ShowLineNumbers = false
	ti.CharLimit = -1
	ti.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ti.Focus()
	return &EditorCmp{textarea: ti}
}

func (e *EditorCmp) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards msg to the text area and reports whether the text changed.
func (e *EditorCmp) Update(msg tea.Msg) (bool, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && e.disabled {
		return false, nil
	}
	before := e.textarea.Value()
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)
	return e.textarea.Value() != before, cmd
}

func (e *EditorCmp) Value() string {
	return e.textarea.Value()
}

// SetValue replaces the text unless it is already equal, keeping the cursor
// where the user left it.
func (e *EditorCmp) SetValue(s string) {
	if e.textarea.Value() == s {
		return
	}
	e.textarea.SetValue(s)
}

func (e *EditorCmp) SetDisabled(disabled bool) {
	if e.disabled == disabled {
		return
	}
	e.disabled = disabled
	if disabled {
		e.textarea.Blur()
		e.textarea.Placeholder = "Waiting for the agent..."
	} else {
		e.textarea.Focus()
		e.textarea.Placeholder = "Send a message..."
	}
}

func (e *EditorCmp) Disabled() bool {
	return e.disabled
}

func (e *EditorCmp) View() string {
	border := styles.EditorBorder
	if e.disabled {
		border = styles.EditorBorderDisabled
	}
	return border.Width(max(e.width-2, 1)).Render(e.textarea.View())
}

func (e *EditorCmp) SetSize(width, height int) {
	e.width = width
	e.textarea.SetWidth(max(width-4, 1))
	e.textarea.SetHeight(max(height-2, 1))
}
