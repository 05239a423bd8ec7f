package core

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
	"github.com/opencode-ai/agentchat/internal/tui/util"
	"github.com/opencode-ai/agentchat/internal/version"
)

const defaultStatusTTL = 10 * time.Second

type StatusCmp interface {
	tea.Model
}

type statusCmp struct {
	info       util.InfoMsg
	width      int
	messageTTL time.Duration
	// seq discards clear ticks scheduled for older messages
	seq int
}

type clearStatusMsg struct {
	seq int
}

func (m *statusCmp) clearMessageCmd(ttl time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *statusCmp) Init() tea.Cmd {
	return nil
}

func (m *statusCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case util.InfoMsg:
		m.info = msg
		m.seq++
		return m, m.clearMessageCmd(m.messageTTL)
	case pubsub.Event[logging.LogMessage]:
		if !msg.Payload.Persist {
			return m, nil
		}
		switch logging.ParseLevel(msg.Payload.Level) {
		case slog.LevelError:
			m.info = util.InfoMsg{Type: util.InfoTypeError, Msg: msg.Payload.Message}
		case slog.LevelWarn:
			m.info = util.InfoMsg{Type: util.InfoTypeWarn, Msg: msg.Payload.Message}
		default:
			m.info = util.InfoMsg{Type: util.InfoTypeInfo, Msg: msg.Payload.Message}
		}
		m.seq++
		ttl := msg.Payload.PersistTime
		if ttl == 0 {
			ttl = m.messageTTL
		}
		return m, m.clearMessageCmd(ttl)
	case clearStatusMsg:
		if msg.seq == m.seq {
			m.info = util.InfoMsg{}
		}
	}
	return m, nil
}

var versionWidget = styles.Padded.Foreground(styles.SubText0).Render(version.Version)

func (m *statusCmp) View() string {
	width := max(0, m.width-lipgloss.Width(versionWidget))
	if m.info.Msg == "" {
		return styles.Regular.Width(width).Render("") + versionWidget
	}
	style := styles.StatusInfo
	switch m.info.Type {
	case util.InfoTypeWarn:
		style = styles.StatusWarn
	case util.InfoTypeError:
		style = styles.StatusError
	}
	text := ansi.Truncate(m.info.Msg, max(width-2, 0), "…")
	return style.Width(width).Render(text) + versionWidget
}

func NewStatusCmp() StatusCmp {
	return &statusCmp{messageTTL: defaultStatusTTL}
}
