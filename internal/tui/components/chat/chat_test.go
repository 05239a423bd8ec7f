package chat

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelSelectorView(t *testing.T) {
	s := NewModelSelectorCmp()
	assert.Contains(t, s.View(), "no models configured")

	s.SetNames([]string{"a", "b", "c"})
	s.SetSelected("b")
	view := ansi.Strip(s.View())
	for _, name := range []string{"a", "b", "c"} {
		assert.Contains(t, view, name)
	}
	assert.Equal(t, "b", s.Selected())

	s.SetWidth(4)
	assert.LessOrEqual(t, ansi.StringWidth(s.View()), 4)
}

func TestMessagesSplash(t *testing.T) {
	m := NewMessagesCmp()
	m.SetSize(80, 10)
	assert.Contains(t, ansi.Strip(m.View()), "Agent Chat")

	cmd := m.SetMessages(nil, false, true)
	assert.NotNil(t, cmd)
	assert.Contains(t, ansi.Strip(m.View()), "Loading conversation")
}

func TestMessagesSeparators(t *testing.T) {
	m := NewMessagesCmp()
	m.SetSize(60, 40)
	m.SetMessages([]message.Message{
		{ID: "1", Role: message.User, Content: "hello", FinishReason: message.FinishReasonEndTurn},
		{ID: "2", Role: message.Assistant, Content: "hi", FinishReason: message.FinishReasonEndTurn},
	}, false, false)

	view := ansi.Strip(m.View())
	require.Contains(t, view, "hello")
	assert.Contains(t, view, "hi")
	// one above the first message and one after each
	assert.Equal(t, 3, strings.Count(view, strings.Repeat("─", 60)))
}

func TestMessagesSpinnerWhileLoading(t *testing.T) {
	m := NewMessagesCmp()
	m.SetSize(60, 40)
	msgs := []message.Message{{ID: "1", Role: message.User, Content: "hello", FinishReason: message.FinishReasonEndTurn}}
	assert.NotNil(t, m.SetMessages(msgs, true, false))
	assert.Nil(t, m.SetMessages(msgs, true, false))
	assert.Nil(t, m.SetMessages(msgs, false, false))
}

func TestEditorDisabled(t *testing.T) {
	e := NewEditorCmp()
	e.SetSize(40, 5)
	e.SetValue("draft")
	assert.Equal(t, "draft", e.Value())

	e.SetDisabled(true)
	assert.True(t, e.Disabled())
	assert.Equal(t, "draft", e.Value())

	e.SetDisabled(false)
	assert.False(t, e.Disabled())
}
