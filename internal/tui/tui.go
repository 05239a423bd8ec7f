package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/opencode-ai/agentchat/internal/app"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/opencode-ai/agentchat/internal/tui/components/core"
	"github.com/opencode-ai/agentchat/internal/tui/page"
	"github.com/opencode-ai/agentchat/internal/tui/util"
)

type keyMap struct {
	Quit key.Binding
	Logs key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "logs"),
	),
}

// Options describe the route the UI opens on.
type Options struct {
	ConversationID string
	// Prompt prefills the draft.
	Prompt  string
	ModelID string
}

type appModel struct {
	width, height int
	currentPage   page.PageID
	pages         map[page.PageID]tea.Model
	status        core.StatusCmp
	app           *app.App
}

func (a appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range a.pages {
		cmds = append(cmds, p.Init())
	}
	cmds = append(cmds, a.status.Init())
	return tea.Batch(cmds...)
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		cmds = append(cmds, cmd)
		// one line for the status bar
		p, cmd := a.pages[a.currentPage].Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 1})
		a.pages[a.currentPage] = p
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	case util.InfoMsg:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd
	case pubsub.Event[logging.LogMessage]:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		cmds = append(cmds, cmd)
		p, cmd := a.pages[page.LogsPage].Update(msg)
		a.pages[page.LogsPage] = p
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	case page.PageChangeMsg:
		cmd := a.moveToPage(msg.ID)
		return a, cmd
	case pubsub.Event[models.Registry]:
		p, cmd := a.pages[page.AgentChatPage].Update(page.RegistryChangedMsg{Registry: msg.Payload})
		a.pages[page.AgentChatPage] = p
		return a, cmd
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			a.closePages()
			return a, tea.Quit
		}
		if key.Matches(msg, keys.Logs) {
			next := page.LogsPage
			if a.currentPage == page.LogsPage {
				next = page.AgentChatPage
			}
			return a, util.CmdHandler(page.PageChangeMsg{ID: next})
		}
	}

	s, cmd := a.status.Update(msg)
	a.status = s.(core.StatusCmp)
	cmds = append(cmds, cmd)
	p, cmd := a.pages[a.currentPage].Update(msg)
	a.pages[a.currentPage] = p
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *appModel) moveToPage(id page.PageID) tea.Cmd {
	if _, ok := a.pages[id]; !ok || id == a.currentPage {
		return nil
	}
	a.currentPage = id
	p, cmd := a.pages[id].Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - 1})
	a.pages[id] = p
	return cmd
}

func (a appModel) closePages() {
	for id, p := range a.pages {
		if closer, ok := p.(interface{ Close() }); ok {
			logging.Debug("Closing page", "page", id)
			closer.Close()
		}
	}
}

func (a appModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		a.pages[a.currentPage].View(),
		a.status.View(),
	)
}

// New builds the root model showing the agent chat page.
func New(app *app.App, opts Options) tea.Model {
	var nav *page.Navigation
	if opts.Prompt != "" {
		nav = &page.Navigation{Content: opts.Prompt}
	}
	cfg := app.Config()
	chatPage := page.NewChatPage(page.ChatPageConfig{
		Sessions: func(path, conversationID string) page.Session {
			return app.NewChatSession(path, conversationID)
		},
		Registry:       app.Registry(),
		TitleLookup:    app.Conversations.ConversationTitle,
		Placeholder:    cfg.Title.Placeholder,
		ConversationID: opts.ConversationID,
		Navigation:     nav,
		ModelID:        opts.ModelID,
	})
	return &appModel{
		currentPage: page.AgentChatPage,
		pages: map[page.PageID]tea.Model{
			page.AgentChatPage: chatPage,
			page.LogsPage:      page.NewLogsPage(),
		},
		status: core.NewStatusCmp(),
		app:    app,
	}
}
