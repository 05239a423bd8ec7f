package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/message"
)

type anthropicOptions struct {
	useBedrock bool
}

type AnthropicOption func(*anthropicOptions)

type anthropicClient struct {
	providerOptions providerClientOptions
	options         anthropicOptions
	client          anthropic.Client
}

type AnthropicClient ProviderClient

func newAnthropicClient(opts providerClientOptions) AnthropicClient {
	anthropicOpts := anthropicOptions{}
	for _, o := range opts.anthropicOptions {
		o(&anthropicOpts)
	}

	anthropicClientOptions := []option.RequestOption{}
	if opts.apiKey != "" {
		anthropicClientOptions = append(anthropicClientOptions, option.WithAPIKey(opts.apiKey))
	}
	if opts.baseURL != "" {
		anthropicClientOptions = append(anthropicClientOptions, option.WithBaseURL(opts.baseURL))
	}
	if anthropicOpts.useBedrock {
		anthropicClientOptions = append(anthropicClientOptions, bedrock.WithLoadDefaultConfig(context.Background()))
	}

	return &anthropicClient{
		providerOptions: opts,
		options:         anthropicOpts,
		client:          anthropic.NewClient(anthropicClientOptions...),
	}
}

func WithAnthropicBedrock() AnthropicOption {
	return func(options *anthropicOptions) {
		options.useBedrock = true
	}
}

func (a *anthropicClient) convertMessages(messages []message.Message) (anthropicMessages []anthropic.MessageParam) {
	for _, msg := range messages {
		switch msg.Role {
		case message.User:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case message.Assistant:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}
	return
}

func (a *anthropicClient) preparedMessages(model models.Descriptor, messages []anthropic.MessageParam) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model.APIModel),
		MaxTokens: maxTokensFor(a.providerOptions, model),
		Messages:  messages,
	}
	if a.providerOptions.systemMessage != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: a.providerOptions.systemMessage},
		}
	}
	if model.SessionID != "" {
		params.Metadata = anthropic.MetadataParam{
			UserID: anthropic.String(model.SessionID),
		}
	}
	return params
}

func (a *anthropicClient) send(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
	params := a.preparedMessages(model, a.convertMessages(messages))
	attempts := 0
	for {
		attempts++
		response, err := a.client.Messages.New(ctx, params)
		if err != nil {
			retry, after, retryErr := a.shouldRetry(attempts, err)
			if retryErr != nil {
				return nil, retryErr
			}
			if retry {
				logging.WarnPersist(fmt.Sprintf("Retrying due to rate limit... attempt %d of %d", attempts, maxRetries))
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(time.Duration(after) * time.Millisecond):
					continue
				}
			}
			return nil, err
		}

		content := ""
		for _, block := range response.Content {
			if text, ok := block.AsAny().(anthropic.TextBlock); ok {
				content += text.Text
			}
		}

		return &ProviderResponse{
			Content:      content,
			Usage:        a.usage(response.Usage),
			FinishReason: a.finishReason(string(response.StopReason)),
		}, nil
	}
}

func (a *anthropicClient) stream(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent {
	params := a.preparedMessages(model, a.convertMessages(messages))

	eventChan := make(chan ProviderEvent)
	go func() {
		defer close(eventChan)
		attempts := 0
		for {
			attempts++
			anthropicStream := a.client.Messages.NewStreaming(ctx, params)
			accumulatedMessage := anthropic.Message{}
			currentContent := ""

			for anthropicStream.Next() {
				event := anthropicStream.Current()
				if err := accumulatedMessage.Accumulate(event); err != nil {
					logging.Warn("Error accumulating message", "error", err)
					continue
				}

				switch event := event.AsAny().(type) {
				case anthropic.ContentBlockDeltaEvent:
					if delta, ok := event.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
						eventChan <- ProviderEvent{
							Type:    EventContentDelta,
							Content: delta.Text,
						}
						currentContent += delta.Text
					}
				case anthropic.MessageStopEvent:
					eventChan <- ProviderEvent{
						Type: EventComplete,
						Response: &ProviderResponse{
							Content:      currentContent,
							Usage:        a.usage(accumulatedMessage.Usage),
							FinishReason: a.finishReason(string(accumulatedMessage.StopReason)),
						},
					}
				}
			}

			err := anthropicStream.Err()
			if err == nil || errors.Is(err, io.EOF) {
				return
			}

			retry, after, retryErr := a.shouldRetry(attempts, err)
			if retryErr != nil {
				eventChan <- ProviderEvent{Type: EventError, Error: retryErr}
				return
			}
			if retry {
				eventChan <- ProviderEvent{
					Type: EventWarning,
					Info: fmt.Sprintf("Retrying due to rate limit... attempt %d of %d", attempts, maxRetries),
				}
				select {
				case <-ctx.Done():
					eventChan <- ProviderEvent{Type: EventError, Error: ctx.Err()}
					return
				case <-time.After(time.Duration(after) * time.Millisecond):
					continue
				}
			}
			eventChan <- ProviderEvent{Type: EventError, Error: err}
			return
		}
	}()
	return eventChan
}

func (a *anthropicClient) shouldRetry(attempts int, err error) (bool, int64, error) {
	var apierr *anthropic.Error
	if !errors.As(err, &apierr) {
		return false, 0, err
	}

	if apierr.StatusCode != 429 && apierr.StatusCode != 529 {
		return false, 0, err
	}

	if attempts > maxRetries {
		return false, 0, fmt.Errorf("maximum retry attempts reached for rate limit: %d retries", maxRetries)
	}

	retryMs := 0
	retryAfterValues := apierr.Response.Header.Values("Retry-After")

	backoffMs := 2000 * (1 << (attempts - 1))
	jitterMs := int(float64(backoffMs) * 0.2)
	retryMs = backoffMs + jitterMs
	if len(retryAfterValues) > 0 {
		if _, err := fmt.Sscanf(retryAfterValues[0], "%d", &retryMs); err == nil {
			retryMs = retryMs * 1000
		}
	}
	return true, int64(retryMs), nil
}

func (a *anthropicClient) usage(usage anthropic.Usage) TokenUsage {
	return TokenUsage{
		InputTokens:  usage.InputTokens,
		OutputTokens: usage.OutputTokens,
	}
}

func (a *anthropicClient) finishReason(reason string) message.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return message.FinishReasonEndTurn
	case "max_tokens":
		return message.FinishReasonMaxTokens
	default:
		return message.FinishReasonUnknown
	}
}
