package page

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/agentchat/internal/conversation"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/opencode-ai/agentchat/internal/tui/components/chat"
	"github.com/opencode-ai/agentchat/internal/tui/styles"
	"github.com/opencode-ai/agentchat/internal/tui/util"

	chatsvc "github.com/opencode-ai/agentchat/internal/chat"
)

const editorHeight = 5

// Session is a ChatSession that also reports its changes.
type Session interface {
	ChatSession
	pubsub.Subscriber[chatsvc.Event]
}

// SessionFactory returns the session for a route.
type SessionFactory func(path, conversationID string) Session

// RoutePath is the route of the agent chat page for a conversation.
func RoutePath(conversationID string) string {
	if conversationID == "" {
		return "/agent"
	}
	return "/agent/" + conversationID
}

// NavigateMsg routes the page to a conversation, optionally carrying a
// payload for the draft.
type NavigateMsg struct {
	ConversationID string
	Navigation     *Navigation
}

// RegistryChangedMsg delivers a reloaded model registry.
type RegistryChangedMsg struct {
	Registry models.Registry
}

type sessionEventMsg struct {
	session Session
	event   pubsub.Event[chatsvc.Event]
	events  <-chan pubsub.Event[chatsvc.Event]
}

type ChatKeyMap struct {
	Send       key.Binding
	Reset      key.Binding
	CycleModel key.Binding
}

var keyMap = ChatKeyMap{
	Send: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "send"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset"),
	),
	CycleModel: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "next model"),
	),
}

type ChatPageConfig struct {
	Sessions       SessionFactory
	Registry       models.Registry
	TitleLookup    TitleLookup
	Placeholder    string
	ConversationID string
	// Navigation is the payload of the navigation that opened the page.
	Navigation *Navigation
	// ModelID preselects a model. It must be registered.
	ModelID string
}

type chatPage struct {
	width, height int

	controller *AgentChatController
	sessions   SessionFactory
	session    Session
	cancel     context.CancelFunc
	events     <-chan pubsub.Event[chatsvc.Event]

	messages *chat.MessagesCmp
	editor   *chat.EditorCmp
	selector *chat.ModelSelectorCmp

	unsubscribe func()
}

// NewChatPage mounts the agent chat page.
func NewChatPage(cfg ChatPageConfig) tea.Model {
	p := &chatPage{
		sessions: cfg.Sessions,
		messages: chat.NewMessagesCmp(),
		editor:   chat.NewEditorCmp(),
		selector: chat.NewModelSelectorCmp(),
	}

	state := NewPageState()
	if cfg.ModelID != "" {
		state.SetModelID(cfg.ModelID)
	}
	p.unsubscribe = state.Subscribe(p.stateChanged)

	p.session = p.openSession(cfg.ConversationID)
	p.controller = NewAgentChatController(AgentChatConfig{
		State:          state,
		Session:        p.session,
		Registry:       cfg.Registry,
		TitleLookup:    cfg.TitleLookup,
		Scroller:       p.messages,
		ConversationID: cfg.ConversationID,
		Placeholder:    cfg.Placeholder,
	})
	p.selector.SetNames(cfg.Registry.AgentNames)
	p.stateChanged(state)
	p.controller.Navigate(cfg.Navigation)
	return p
}

func (p *chatPage) openSession(conversationID string) Session {
	ctx, cancel := context.WithCancel(context.Background())
	session := p.sessions(RoutePath(conversationID), conversationID)
	p.cancel = cancel
	p.events = session.Subscribe(ctx)
	return session
}

func (p *chatPage) stateChanged(s *PageState) {
	p.editor.SetValue(s.Content())
	p.selector.SetSelected(s.ModelID())
}

func waitForEvent(session Session, events <-chan pubsub.Event[chatsvc.Event]) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return sessionEventMsg{session: session, event: ev, events: events}
	}
}

func (p *chatPage) Init() tea.Cmd {
	return tea.Batch(
		p.messages.Init(),
		p.editor.Init(),
		p.refresh(p.session.Loading()),
		waitForEvent(p.session, p.events),
	)
}

// refresh pulls the session state into the components and repositions the
// view when loading differs from the last observed flag.
func (p *chatPage) refresh(loading bool) tea.Cmd {
	cmd := p.messages.SetMessages(p.session.Messages(), p.session.Loading(), p.session.LoadingMessages())
	p.editor.SetDisabled(p.session.Loading())
	p.controller.SyncScroll(loading)
	return cmd
}

func (p *chatPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.SetSize(msg.Width, msg.Height)
		return p, nil
	case sessionEventMsg:
		if msg.session != p.session {
			// stale subscription from a previous route
			return p, nil
		}
		return p, tea.Batch(p.refresh(msg.event.Payload.Loading), waitForEvent(msg.session, msg.events))
	case NavigateMsg:
		if msg.ConversationID != p.controller.ConversationID() {
			cmds = append(cmds, p.route(msg.ConversationID))
		}
		p.controller.Navigate(msg.Navigation)
		return p, tea.Batch(cmds...)
	case RegistryChangedMsg:
		p.controller.SetRegistry(msg.Registry)
		p.selector.SetNames(msg.Registry.AgentNames)
		if !msg.Registry.Contains(p.controller.State().ModelID()) {
			logging.Warn("Selected model is no longer available", "model", p.controller.State().ModelID())
		}
		return p, nil
	case pubsub.Event[conversation.Conversation]:
		p.controller.InvalidateTitle(msg.Payload.ID)
		return p, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyMap.Send):
			return p, p.send()
		case key.Matches(msg, keyMap.Reset):
			if !p.controller.CanReset() {
				return p, nil
			}
			p.controller.Reset()
			return p, p.refresh(p.session.Loading())
		case key.Matches(msg, keyMap.CycleModel):
			p.controller.CycleModel()
			return p, nil
		}
		if changed, cmd := p.editor.Update(msg); changed || cmd != nil {
			if changed {
				p.controller.State().SetContent(p.editor.Value())
			}
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, p.messages.Update(msg))
		return p, tea.Batch(cmds...)
	}

	_, cmd := p.editor.Update(msg)
	cmds = append(cmds, cmd, p.messages.Update(msg))
	return p, tea.Batch(cmds...)
}

func (p *chatPage) send() tea.Cmd {
	if p.editor.Disabled() {
		return util.ReportWarn("The agent is still answering, please wait...")
	}
	if p.controller.State().Content() == "" {
		return nil
	}
	p.controller.Send()
	return p.refresh(p.session.Loading())
}

// route swaps the session for another conversation. The page state is kept.
func (p *chatPage) route(conversationID string) tea.Cmd {
	p.cancel()
	if closer, ok := p.session.(interface{ Close() }); ok {
		go closer.Close()
	}
	p.session = p.openSession(conversationID)
	p.controller.Route(conversationID, p.session)
	return tea.Batch(p.refresh(p.session.Loading()), waitForEvent(p.session, p.events))
}

func (p *chatPage) header() string {
	title := styles.Title.Render(p.controller.Title())
	return lipgloss.JoinVertical(lipgloss.Left, title, p.selector.View())
}

func (p *chatPage) help() string {
	bindings := []key.Binding{keyMap.Send, keyMap.CycleModel}
	if p.controller.CanReset() {
		bindings = append(bindings, keyMap.Reset)
	}
	bindings = append(bindings, p.messages.BindingKeys()...)
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.StatusHelp.Width(p.width).Render(lipgloss.JoinHorizontal(lipgloss.Left, joinSpaced(parts)...))
}

func joinSpaced(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, part := range parts {
		if i > 0 {
			out = append(out, " • ")
		}
		out = append(out, part)
	}
	return out
}

func (p *chatPage) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		p.header(),
		p.messages.View(),
		p.editor.View(),
		p.help(),
	)
}

func (p *chatPage) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.selector.SetWidth(width)
	headerHeight := lipgloss.Height(p.header())
	helpHeight := 1
	p.editor.SetSize(width, editorHeight)
	p.messages.SetSize(width, max(height-headerHeight-editorHeight-helpHeight, 1))
}

func (p *chatPage) GetSize() (int, int) {
	return p.width, p.height
}

func (p *chatPage) BindingKeys() []key.Binding {
	bindings := []key.Binding{keyMap.Send, keyMap.CycleModel}
	if p.controller.CanReset() {
		bindings = append(bindings, keyMap.Reset)
	}
	return append(bindings, p.messages.BindingKeys()...)
}

// Close releases the session.
func (p *chatPage) Close() {
	p.unsubscribe()
	p.cancel()
	if closer, ok := p.session.(interface{ Close() }); ok {
		closer.Close()
	}
}
