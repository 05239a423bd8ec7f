package message

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

func setup(t *testing.T) (Service, string) {
	t.Helper()
	conn, err := db.Connect(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	q := db.New(conn)
	conv, err := q.CreateConversation(context.Background(), db.CreateConversationParams{ID: "conv", Title: "t"})
	require.NoError(t, err)
	return NewService(q), conv.ID
}

func TestMessageLifecycle(t *testing.T) {
	s, convID := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := s.Subscribe(ctx)

	user, err := s.Create(ctx, convID, CreateMessageParams{Role: User, Content: "hello"})
	require.NoError(t, err)
	assert.True(t, user.IsFinished())
	assert.Equal(t, pubsub.CreatedEvent, (<-events).Type)

	reply, err := s.Create(ctx, convID, CreateMessageParams{Role: Assistant, Model: models.LocalEcho})
	require.NoError(t, err)
	assert.False(t, reply.IsFinished())
	<-events

	reply.Content = "hi there"
	reply.FinishReason = FinishReasonEndTurn
	require.NoError(t, s.Update(ctx, reply))
	ev := <-events
	assert.Equal(t, pubsub.UpdatedEvent, ev.Type)
	assert.Equal(t, "hi there", ev.Payload.Content)

	list, err := s.List(ctx, convID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, User, list[0].Role)
	assert.Equal(t, "hi there", list[1].Content)
	assert.Equal(t, models.LocalEcho, list[1].Model)

	require.NoError(t, s.Delete(ctx, user.ID))
	assert.Equal(t, pubsub.DeletedEvent, (<-events).Type)
	_, err = s.Get(ctx, user.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestDeleteConversationMessages(t *testing.T) {
	s, convID := setup(t)
	ctx := context.Background()

	for _, text := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, convID, CreateMessageParams{Role: User, Content: text})
		require.NoError(t, err)
	}
	require.NoError(t, s.DeleteConversationMessages(ctx, convID))

	list, err := s.List(ctx, convID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
