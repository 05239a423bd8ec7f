package provider

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiClient struct {
	providerOptions providerClientOptions
	client          openai.Client
}

type OpenAIClient ProviderClient

func newOpenAIClient(opts providerClientOptions) OpenAIClient {
	openaiClientOptions := []option.RequestOption{}
	if opts.apiKey != "" {
		openaiClientOptions = append(openaiClientOptions, option.WithAPIKey(opts.apiKey))
	}
	if opts.baseURL != "" {
		openaiClientOptions = append(openaiClientOptions, option.WithBaseURL(opts.baseURL))
	}

	return &openaiClient{
		providerOptions: opts,
		client:          openai.NewClient(openaiClientOptions...),
	}
}

func (o *openaiClient) convertMessages(messages []message.Message) (openaiMessages []openai.ChatCompletionMessageParamUnion) {
	if o.providerOptions.systemMessage != "" {
		openaiMessages = append(openaiMessages, openai.SystemMessage(o.providerOptions.systemMessage))
	}

	for _, msg := range messages {
		switch msg.Role {
		case message.User:
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		case message.Assistant:
			assistantMsg := openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				},
			}
			openaiMessages = append(openaiMessages, openai.ChatCompletionMessageParamUnion{
				OfAssistant: &assistantMsg,
			})
		}
	}
	return
}

func (o *openaiClient) preparedParams(model models.Descriptor, messages []openai.ChatCompletionMessageParamUnion) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model.APIModel),
		Messages:  messages,
		MaxTokens: openai.Int(maxTokensFor(o.providerOptions, model)),
	}
	if model.SessionID != "" {
		params.User = openai.String(model.SessionID)
	}
	return params
}

func (o *openaiClient) send(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
	params := o.preparedParams(model, o.convertMessages(messages))
	response, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("openai returned no choices")
	}

	return &ProviderResponse{
		Content:      response.Choices[0].Message.Content,
		Usage:        o.usage(response.Usage),
		FinishReason: o.finishReason(string(response.Choices[0].FinishReason)),
	}, nil
}

func (o *openaiClient) stream(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent {
	params := o.preparedParams(model, o.convertMessages(messages))
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	eventChan := make(chan ProviderEvent)
	go func() {
		defer close(eventChan)

		openaiStream := o.client.Chat.Completions.NewStreaming(ctx, params)
		acc := openai.ChatCompletionAccumulator{}
		currentContent := ""
		finishReason := ""

		for openaiStream.Next() {
			chunk := openaiStream.Current()
			acc.AddChunk(chunk)

			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					eventChan <- ProviderEvent{
						Type:    EventContentDelta,
						Content: choice.Delta.Content,
					}
					currentContent += choice.Delta.Content
				}
				if choice.FinishReason != "" {
					finishReason = string(choice.FinishReason)
				}
			}
		}

		if err := openaiStream.Err(); err != nil && !errors.Is(err, io.EOF) {
			eventChan <- ProviderEvent{Type: EventError, Error: err}
			return
		}

		eventChan <- ProviderEvent{
			Type: EventComplete,
			Response: &ProviderResponse{
				Content:      currentContent,
				Usage:        o.usage(acc.Usage),
				FinishReason: o.finishReason(finishReason),
			},
		}
	}()
	return eventChan
}

func (o *openaiClient) usage(usage openai.CompletionUsage) TokenUsage {
	return TokenUsage{
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	}
}

func (o *openaiClient) finishReason(reason string) message.FinishReason {
	switch reason {
	case "stop":
		return message.FinishReasonEndTurn
	case "length":
		return message.FinishReasonMaxTokens
	default:
		return message.FinishReasonUnknown
	}
}
