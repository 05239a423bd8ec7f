package provider

import (
	"context"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
)

type MockClient struct {
	SendMessagesFunc   func(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error)
	StreamResponseFunc func(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent
}

func (m *MockClient) send(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
	if m.SendMessagesFunc != nil {
		return m.SendMessagesFunc(ctx, model, messages)
	}
	return &ProviderResponse{FinishReason: message.FinishReasonEndTurn}, nil
}

func (m *MockClient) stream(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent {
	if m.StreamResponseFunc != nil {
		return m.StreamResponseFunc(ctx, model, messages)
	}
	ch := make(chan ProviderEvent, 1)
	ch <- ProviderEvent{Type: EventComplete, Response: &ProviderResponse{FinishReason: message.FinishReasonEndTurn}}
	close(ch)
	return ch
}
