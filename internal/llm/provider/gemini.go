package provider

import (
	"context"
	"strings"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
	"google.golang.org/genai"
)

type geminiClient struct {
	providerOptions providerClientOptions
	client          *genai.Client
}

type GeminiClient ProviderClient

func newGeminiClient(opts providerClientOptions) (GeminiClient, error) {
	config := &genai.ClientConfig{
		APIKey:  opts.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return nil, err
	}
	return &geminiClient{
		providerOptions: opts,
		client:          client,
	}, nil
}

func (g *geminiClient) convertMessages(messages []message.Message) (history []*genai.Content) {
	for _, msg := range messages {
		role := "user"
		if msg.Role == message.Assistant {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return
}

func (g *geminiClient) config() *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if g.providerOptions.systemMessage != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: g.providerOptions.systemMessage}},
		}
	}
	return config
}

func (g *geminiClient) send(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model.APIModel, g.convertMessages(messages), g.config())
	if err != nil {
		return nil, err
	}
	return &ProviderResponse{
		Content:      g.text(resp),
		FinishReason: g.finishReason(resp),
	}, nil
}

func (g *geminiClient) stream(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent {
	contents := g.convertMessages(messages)
	config := g.config()

	eventChan := make(chan ProviderEvent)
	go func() {
		defer close(eventChan)

		var last *genai.GenerateContentResponse
		var content strings.Builder
		for resp, err := range g.client.Models.GenerateContentStream(ctx, model.APIModel, contents, config) {
			if err != nil {
				eventChan <- ProviderEvent{Type: EventError, Error: err}
				return
			}
			last = resp
			if delta := g.text(resp); delta != "" {
				content.WriteString(delta)
				eventChan <- ProviderEvent{
					Type:    EventContentDelta,
					Content: delta,
				}
			}
		}

		eventChan <- ProviderEvent{
			Type: EventComplete,
			Response: &ProviderResponse{
				Content:      content.String(),
				FinishReason: g.finishReason(last),
			},
		}
	}()
	return eventChan
}

func (g *geminiClient) text(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func (g *geminiClient) finishReason(resp *genai.GenerateContentResponse) message.FinishReason {
	if resp == nil || len(resp.Candidates) == 0 {
		return message.FinishReasonUnknown
	}
	switch resp.Candidates[0].FinishReason {
	case genai.FinishReasonStop:
		return message.FinishReasonEndTurn
	case genai.FinishReasonMaxTokens:
		return message.FinishReasonMaxTokens
	default:
		return message.FinishReasonUnknown
	}
}
