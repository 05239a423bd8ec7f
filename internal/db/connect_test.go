package db

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectAppliesMigrations(t *testing.T) {
	conn, err := Connect(t.TempDir())
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	q := New(conn)

	conv, err := q.CreateConversation(ctx, CreateConversationParams{ID: "c1", Title: "hello", ModelID: "local.echo"})
	require.NoError(t, err)
	assert.Equal(t, "hello", conv.Title)
	assert.NotZero(t, conv.CreatedAt)

	for _, id := range []string{"m1", "m2"} {
		_, err := q.CreateMessage(ctx, CreateMessageParams{ID: id, ConversationID: "c1", Role: "user", Content: id})
		require.NoError(t, err)
	}

	conv, err = q.GetConversationByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), conv.MessageCount)

	msgs, err := q.ListMessagesByConversation(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)

	require.NoError(t, q.UpdateMessage(ctx, UpdateMessageParams{ID: "m2", Content: "edited", FinishReason: "end_turn"}))
	m, err := q.GetMessage(ctx, "m2")
	require.NoError(t, err)
	assert.Equal(t, "edited", m.Content)
	assert.Equal(t, "end_turn", m.FinishReason)

	require.NoError(t, q.DeleteConversationMessages(ctx, "c1"))
	conv, err = q.GetConversationByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), conv.MessageCount)

	require.NoError(t, q.DeleteConversation(ctx, "c1"))
	_, err = q.GetConversationByID(ctx, "c1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestConnectRequiresDataDir(t *testing.T) {
	_, err := Connect("")
	require.Error(t, err)
}

func TestConnectIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	first, err := Connect(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Connect(dir)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}
