package conversation

import (
	"context"
	"testing"

	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/opencode-ai/agentchat/internal/errors"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := db.Connect(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewService(context.Background(), db.New(conn))
}

func TestConversationLifecycle(t *testing.T) {
	s := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Subscribe(ctx)

	c, err := s.Create(ctx, "My Chat", models.LocalEcho)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, models.LocalEcho, c.ModelID)

	ev := <-events
	assert.Equal(t, pubsub.CreatedEvent, ev.Type)
	assert.Equal(t, c.ID, ev.Payload.ID)

	c.Title = "Renamed"
	saved, err := s.Save(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", saved.Title)
	ev = <-events
	assert.Equal(t, pubsub.UpdatedEvent, ev.Type)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, c.ID))
	ev = <-events
	assert.Equal(t, pubsub.DeletedEvent, ev.Type)

	_, err = s.Get(ctx, c.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestConversationTitle(t *testing.T) {
	s := newTestService(t)

	c, err := s.Create(context.Background(), "My Chat", models.LocalEcho)
	require.NoError(t, err)

	assert.Equal(t, "My Chat", s.ConversationTitle(c.ID))
	assert.Equal(t, "", s.ConversationTitle("missing"))
	assert.Equal(t, "", s.ConversationTitle(""))
}

func TestSaveMissingConversation(t *testing.T) {
	s := newTestService(t)
	_, err := s.Save(context.Background(), Conversation{ID: "nope", Title: "x"})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
