package page

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opencode-ai/agentchat/internal/conversation"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatsvc "github.com/opencode-ai/agentchat/internal/chat"
)

type eventSession struct {
	*fakeSession
	path           string
	conversationID string
}

func (e *eventSession) Subscribe(context.Context) <-chan pubsub.Event[chatsvc.Event] {
	return make(chan pubsub.Event[chatsvc.Event])
}

type sessionRecorder struct {
	opened []*eventSession
}

func (r *sessionRecorder) factory(path, conversationID string) Session {
	s := &eventSession{fakeSession: &fakeSession{}, path: path, conversationID: conversationID}
	r.opened = append(r.opened, s)
	return s
}

func (r *sessionRecorder) current() *eventSession {
	return r.opened[len(r.opened)-1]
}

func newTestPage(t *testing.T, cfg ChatPageConfig) (*chatPage, *sessionRecorder) {
	t.Helper()
	r := &sessionRecorder{}
	cfg.Sessions = r.factory
	if cfg.Registry.Empty() {
		cfg.Registry = testRegistry()
	}
	p := NewChatPage(cfg).(*chatPage)
	p.SetSize(100, 40)
	return p, r
}

func ctrl(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(p *chatPage, text string) {
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestChatPageMount(t *testing.T) {
	p, r := newTestPage(t, ChatPageConfig{Navigation: &Navigation{Content: "prefilled"}})

	require.Len(t, r.opened, 1)
	assert.Equal(t, "/agent", r.current().path)
	assert.Equal(t, "prefilled", p.controller.State().Content())
	assert.Equal(t, "prefilled", p.editor.Value())
	assert.Equal(t, string(models.Claude37Sonnet), p.selector.Selected())
	assert.Contains(t, p.View(), DefaultTitle)
}

func TestChatPageSeedsModel(t *testing.T) {
	p, _ := newTestPage(t, ChatPageConfig{ModelID: string(models.LocalEcho)})
	assert.Equal(t, string(models.LocalEcho), p.controller.State().ModelID())
}

func TestChatPageTypingAndSend(t *testing.T) {
	p, r := newTestPage(t, ChatPageConfig{})

	typeText(p, "hello")
	assert.Equal(t, "hello", p.controller.State().Content())

	p.Update(ctrl(tea.KeyCtrlS))
	session := r.current()
	require.Len(t, session.posts, 1)
	assert.Equal(t, "hello", session.posts[0].text)
	require.NotNil(t, session.posts[0].model)
	assert.Equal(t, p.controller.State().SessionID(), session.posts[0].model.SessionID)
	assert.Equal(t, "", p.controller.State().Content())
	assert.Equal(t, "", p.editor.Value())

	// empty drafts are not sent from the keyboard
	p.Update(ctrl(tea.KeyCtrlS))
	assert.Len(t, session.posts, 1)
}

func TestChatPageEditorDisabledWhileLoading(t *testing.T) {
	p, r := newTestPage(t, ChatPageConfig{})
	r.current().loading = true
	p.refresh(true)

	typeText(p, "ignored")
	assert.Equal(t, "", p.controller.State().Content())
	p.controller.State().SetContent("queued")
	p.Update(ctrl(tea.KeyCtrlS))
	assert.Empty(t, r.current().posts)
}

func TestChatPageReset(t *testing.T) {
	p, r := newTestPage(t, ChatPageConfig{})
	typeText(p, "draft")
	p.Update(ctrl(tea.KeyCtrlR))
	assert.Equal(t, 1, r.current().clears)
	assert.Equal(t, "", p.controller.State().Content())
	assert.Contains(t, p.help(), "reset")

	bound, br := newTestPage(t, ChatPageConfig{ConversationID: "abc"})
	bound.Update(ctrl(tea.KeyCtrlR))
	assert.Equal(t, 0, br.current().clears)
	assert.NotContains(t, bound.help(), "reset")
}

func TestChatPageCycleModel(t *testing.T) {
	p, _ := newTestPage(t, ChatPageConfig{})
	p.Update(ctrl(tea.KeyCtrlO))
	assert.Equal(t, string(models.GPT41), p.selector.Selected())
}

func TestChatPageNavigate(t *testing.T) {
	titles := map[string]string{"abc": "Stored"}
	p, r := newTestPage(t, ChatPageConfig{TitleLookup: func(id string) string { return titles[id] }})
	sessionID := p.controller.State().SessionID()
	typeText(p, "typed")

	p.Update(NavigateMsg{ConversationID: "abc", Navigation: &Navigation{Content: "linked"}})

	require.Len(t, r.opened, 2)
	assert.Equal(t, "/agent/abc", r.current().path)
	assert.Equal(t, "abc", r.current().conversationID)
	assert.Equal(t, "linked", p.controller.State().Content())
	assert.Equal(t, sessionID, p.controller.State().SessionID())
	assert.Equal(t, "Stored", p.controller.Title())

	// same route, no payload
	p.Update(NavigateMsg{ConversationID: "abc"})
	assert.Len(t, r.opened, 2)
	assert.Equal(t, "linked", p.controller.State().Content())

	titles["abc"] = "Renamed"
	p.Update(pubsub.Event[conversation.Conversation]{Type: pubsub.UpdatedEvent, Payload: conversation.Conversation{ID: "abc"}})
	assert.Equal(t, "Renamed", p.controller.Title())
}

func TestChatPageStaleSessionEvents(t *testing.T) {
	p, r := newTestPage(t, ChatPageConfig{})
	old := r.current()
	p.Update(NavigateMsg{ConversationID: "abc"})

	old.messages = []message.Message{{ID: "x"}}
	_, cmd := p.Update(sessionEventMsg{session: old})
	assert.Nil(t, cmd)
}

func TestChatPageScrollsOnEveryLoadingEvent(t *testing.T) {
	p, r := newTestPage(t, ChatPageConfig{})
	session := r.current()
	event := func(loading bool) sessionEventMsg {
		return sessionEventMsg{
			session: session,
			event:   pubsub.Event[chatsvc.Event]{Type: chatsvc.LoadingChangedEvent, Payload: chatsvc.Event{Loading: loading}},
		}
	}

	// the turn is over before either event is handled
	session.messages = []message.Message{{ID: "u"}, {ID: "a"}}
	p.Update(event(true))
	assert.True(t, p.controller.loading)
	p.Update(event(false))
	assert.False(t, p.controller.loading)

	assert.False(t, p.controller.SyncScroll(false))
	assert.True(t, p.controller.SyncScroll(true))
}

func TestChatPageRegistryChange(t *testing.T) {
	p, _ := newTestPage(t, ChatPageConfig{Registry: models.NewRegistry(models.LocalEcho)})
	p.Update(RegistryChangedMsg{Registry: models.NewRegistry(models.GPT41, models.LocalEcho)})
	assert.Equal(t, string(models.LocalEcho), p.controller.State().ModelID())
	assert.Equal(t, []string{string(models.GPT41), string(models.LocalEcho)}, p.controller.Registry().AgentNames)
}
