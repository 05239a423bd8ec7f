package provider

import (
	"context"
	"testing"
	"time"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func drain(t *testing.T, ch <-chan ProviderEvent) []ProviderEvent {
	t.Helper()
	var events []ProviderEvent
	timeout := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatal("stream did not finish")
		}
	}
}

func TestMockProvider(t *testing.T) {
	var gotModel models.Descriptor
	var gotMessages []message.Message
	mockClient := &MockClient{
		SendMessagesFunc: func(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
			gotModel = model
			gotMessages = messages
			return &ProviderResponse{Content: "Hello, world!"}, nil
		},
	}

	p, err := NewProvider(models.ProviderMock, WithMockClient(mockClient))
	require.NoError(t, err)

	model := models.SupportedModels[models.LocalEcho].ForSession("session-1")
	history := []message.Message{
		{Role: message.User, Content: "hi"},
		{Role: message.Assistant, Content: "", FinishReason: ""},
		{Role: message.Assistant, Content: "boom", FinishReason: message.FinishReasonError},
		{Role: message.Assistant, Content: "fine", FinishReason: message.FinishReasonEndTurn},
	}
	resp, err := p.SendMessages(context.Background(), model, history)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", resp.Content)
	assert.Equal(t, "session-1", gotModel.SessionID)
	require.Len(t, gotMessages, 2)
	assert.Equal(t, "hi", gotMessages[0].Content)
	assert.Equal(t, "fine", gotMessages[1].Content)
}

func TestMockProviderRequiresClient(t *testing.T) {
	_, err := NewProvider(models.ProviderMock)
	require.Error(t, err)
}

func TestUnknownProvider(t *testing.T) {
	_, err := NewProvider("nope")
	require.Error(t, err)
}

func TestEchoProviderStreams(t *testing.T) {
	p, err := NewProvider(models.ProviderEcho, WithEchoOptions(WithEchoDelay(time.Millisecond)))
	require.NoError(t, err)

	history := []message.Message{{Role: message.User, Content: "ping pong"}}
	events := drain(t, p.StreamResponse(context.Background(), models.SupportedModels[models.LocalEcho], history))
	require.NotEmpty(t, events)

	var streamed string
	for _, ev := range events[:len(events)-1] {
		require.Equal(t, EventContentDelta, ev.Type)
		streamed += ev.Content
	}
	last := events[len(events)-1]
	require.Equal(t, EventComplete, last.Type)
	assert.Equal(t, "You said:\n\n> ping pong", last.Response.Content)
	assert.Equal(t, last.Response.Content, streamed)
	assert.Equal(t, message.FinishReasonEndTurn, last.Response.FinishReason)
}

func TestEchoProviderCancel(t *testing.T) {
	p, err := NewProvider(models.ProviderEcho, WithEchoOptions(WithEchoDelay(time.Hour)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	ch := p.StreamResponse(ctx, models.SupportedModels[models.LocalEcho], []message.Message{{Role: message.User, Content: "x"}})
	cancel()

	events := drain(t, ch)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
	assert.ErrorIs(t, events[0].Error, context.Canceled)
}

func TestEchoProviderSend(t *testing.T) {
	p, err := NewProvider(models.ProviderEcho)
	require.NoError(t, err)

	resp, err := p.SendMessages(context.Background(), models.SupportedModels[models.LocalEcho], nil)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to echo.", resp.Content)
}

func TestMaxTokensFor(t *testing.T) {
	model := models.Descriptor{DefaultMaxTokens: 200}
	assert.Equal(t, int64(50), maxTokensFor(providerClientOptions{maxTokens: 50}, model))
	assert.Equal(t, int64(200), maxTokensFor(providerClientOptions{}, model))
	assert.Equal(t, int64(1024), maxTokensFor(providerClientOptions{}, models.Descriptor{}))
}
