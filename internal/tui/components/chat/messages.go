package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
)

type cachedMessage struct {
	content string
	finish  message.FinishReason
	width   int
	view    string
}

type MessagesKeyMap struct {
	PageDown     key.Binding
	PageUp       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
}

var messageKeys = MessagesKeyMap{
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	HalfPageUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("ctrl+u", "½ page up"),
	),
	HalfPageDown: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "½ page down"),
	),
}

// MessagesCmp renders the chat history in a scrollable viewport.
type MessagesCmp struct {
	width, height   int
	viewport        viewport.Model
	spinner         spinner.Model
	renderer        *glamour.TermRenderer
	rendererWidth   int
	cache           map[string]cachedMessage
	messages        []message.Message
	loading         bool
	loadingMessages bool
}

func NewMessagesCmp() *MessagesCmp {
	s := spinner.New(spinner.WithSpinner(spinner.Points), spinner.WithStyle(styles.Muted))
	vp := viewport.New(0, 0)
	vp.KeyMap.PageUp = messageKeys.PageUp
	vp.KeyMap.PageDown = messageKeys.PageDown
	vp.KeyMap.HalfPageUp = messageKeys.HalfPageUp
	vp.KeyMap.HalfPageDown = messageKeys.HalfPageDown
	// letters and arrows belong to the editor
	vp.KeyMap.Up = key.NewBinding(key.WithDisabled())
	vp.KeyMap.Down = key.NewBinding(key.WithDisabled())
	vp.KeyMap.Left = key.NewBinding(key.WithDisabled())
	vp.KeyMap.Right = key.NewBinding(key.WithDisabled())
	return &MessagesCmp{
		viewport: vp,
		spinner:  s,
		cache:    make(map[string]cachedMessage),
	}
}

func (m *MessagesCmp) Init() tea.Cmd {
	return m.viewport.Init()
}

func (m *MessagesCmp) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if _, ok := msg.(spinner.TickMsg); ok {
		if !m.busy() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.render()
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return tea.Batch(cmds...)
}

// SetMessages replaces the rendered history. The returned command keeps the
// spinner running while the session is busy.
func (m *MessagesCmp) SetMessages(msgs []message.Message, loading, loadingMessages bool) tea.Cmd {
	wasBusy := m.busy()
	m.messages = msgs
	m.loading = loading
	m.loadingMessages = loadingMessages
	m.render()
	if m.busy() && !wasBusy {
		return m.spinner.Tick
	}
	return nil
}

func (m *MessagesCmp) busy() bool {
	return m.loading || m.loadingMessages
}

func (m *MessagesCmp) ScrollToTop() {
	m.viewport.GotoTop()
}

func (m *MessagesCmp) ScrollToBottom() {
	m.viewport.GotoBottom()
}

func (m *MessagesCmp) showSplash() bool {
	return len(m.messages) == 0 || m.loadingMessages
}

func (m *MessagesCmp) render() {
	if m.showSplash() {
		m.viewport.SetContent(splash(m.width, m.height, m.loadingMessages, m.spinner.View()))
		return
	}

	var b strings.Builder
	b.WriteString(separator(m.width))
	b.WriteString("\n")
	for i, msg := range m.messages {
		last := i == len(m.messages)-1
		b.WriteString(m.renderMessage(msg))
		if last && m.loading {
			b.WriteString("\n")
			b.WriteString(m.spinner.View())
		}
		b.WriteString("\n")
		b.WriteString(separator(m.width))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m *MessagesCmp) renderMessage(msg message.Message) string {
	if c, ok := m.cache[msg.ID]; ok && c.content == msg.Content && c.finish == msg.FinishReason && c.width == m.width {
		return c.view
	}

	header := styles.Bold.Foreground(styles.Secondary).Render(styles.UserIcon + " You")
	border := styles.UserBorder
	if msg.Role == message.Assistant {
		name := "Agent"
		if msg.Model != "" {
			name = fmt.Sprintf("Agent (%s)", msg.Model)
		}
		header = styles.Bold.Foreground(styles.Primary).Render(styles.BotIcon + " " + name)
		border = styles.AssistantBorder
	}
	if msg.FinishReason == message.FinishReasonError {
		header = lipgloss.JoinHorizontal(lipgloss.Left, header, styles.Regular.Foreground(styles.Error).Render(" "+styles.ErrorIcon))
		border = styles.ErrorBorder
	}

	body := m.markdown(msg.Content)
	if msg.FinishReason == message.FinishReasonCanceled {
		body = lipgloss.JoinVertical(lipgloss.Left, body, styles.Muted.Render("canceled"))
	}
	view := border.Width(max(m.width-2, 1)).Render(lipgloss.JoinVertical(lipgloss.Left, header, body))

	if msg.IsFinished() {
		m.cache[msg.ID] = cachedMessage{
			content: msg.Content,
			finish:  msg.FinishReason,
			width:   m.width,
			view:    view,
		}
	}
	return view
}

func (m *MessagesCmp) markdown(content string) string {
	if content == "" {
		return ""
	}
	width := max(m.width-4, 10)
	if m.renderer == nil || m.rendererWidth != width {
		r, err := styles.MarkdownRenderer(width)
		if err != nil {
			logging.Error("Failed to create markdown renderer", "error", err)
			return content
		}
		m.renderer = r
		m.rendererWidth = width
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (m *MessagesCmp) View() string {
	return m.viewport.View()
}

func (m *MessagesCmp) SetSize(width, height int) {
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	clear(m.cache)
	m.render()
}

func (m *MessagesCmp) GetSize() (int, int) {
	return m.width, m.height
}

func (m *MessagesCmp) BindingKeys() []key.Binding {
	return []key.Binding{
		messageKeys.PageDown,
		messageKeys.PageUp,
		messageKeys.HalfPageUp,
		messageKeys.HalfPageDown,
	}
}
