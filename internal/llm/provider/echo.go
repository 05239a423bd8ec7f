package provider

import (
	"context"
	"strings"
	"time"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
)

type echoOptions struct {
	delay time.Duration
}

type EchoOption func(*echoOptions)

// WithEchoDelay sets the pause between streamed chunks.
func WithEchoDelay(d time.Duration) EchoOption {
	return func(options *echoOptions) {
		options.delay = d
	}
}

type echoClient struct {
	providerOptions providerClientOptions
	options         echoOptions
}

type EchoClient ProviderClient

func newEchoClient(opts providerClientOptions) EchoClient {
	echoOpts := echoOptions{delay: 20 * time.Millisecond}
	for _, o := range opts.echoOptions {
		o(&echoOpts)
	}
	return &echoClient{
		providerOptions: opts,
		options:         echoOpts,
	}
}

func (e *echoClient) reply(messages []message.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == message.User {
			return "You said:\n\n> " + strings.ReplaceAll(messages[i].Content, "\n", "\n> ")
		}
	}
	return "Nothing to echo."
}

func (e *echoClient) send(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content := e.reply(messages)
	return &ProviderResponse{
		Content:      content,
		Usage:        TokenUsage{OutputTokens: int64(len(strings.Fields(content)))},
		FinishReason: message.FinishReasonEndTurn,
	}, nil
}

func (e *echoClient) stream(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent {
	content := e.reply(messages)
	eventChan := make(chan ProviderEvent)
	go func() {
		defer close(eventChan)
		for _, chunk := range strings.SplitAfter(content, " ") {
			select {
			case <-ctx.Done():
				eventChan <- ProviderEvent{Type: EventError, Error: ctx.Err()}
				return
			case <-time.After(e.options.delay):
			}
			eventChan <- ProviderEvent{Type: EventContentDelta, Content: chunk}
		}
		eventChan <- ProviderEvent{
			Type: EventComplete,
			Response: &ProviderResponse{
				Content:      content,
				Usage:        TokenUsage{OutputTokens: int64(len(strings.Fields(content)))},
				FinishReason: message.FinishReasonEndTurn,
			},
		}
	}()
	return eventChan
}
