package logs

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableRefreshesOnLogEvents(t *testing.T) {
	require.NoError(t, logging.Init("debug", ""))

	c := NewTableCmp()
	c.SetSize(160, 20)
	c.Init()
	before := c.Rows()

	logging.Info("table refresh check", "component", "logs")
	require.Greater(t, len(logging.List()), before)

	assert.Nil(t, c.Update(pubsub.Event[logging.LogMessage]{Type: pubsub.CreatedEvent}))
	assert.Equal(t, len(logging.List()), c.Rows())
	assert.Contains(t, c.View(), "table refresh check")
}

func TestTableBindings(t *testing.T) {
	c := NewTableCmp()
	c.SetSize(80, 5)
	c.Init()
	c.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Len(t, c.BindingKeys(), 6)
}
