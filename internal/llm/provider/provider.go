package provider

import (
	"context"
	"fmt"

	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/message"
)

type EventType string

const maxRetries = 8

const (
	EventContentDelta EventType = "content_delta"
	EventComplete     EventType = "complete"
	EventError        EventType = "error"
	EventWarning      EventType = "warning"
)

type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
}

type ProviderResponse struct {
	Content      string
	Usage        TokenUsage
	FinishReason message.FinishReason
}

type ProviderEvent struct {
	Type EventType

	Content  string
	Response *ProviderResponse
	Error    error

	// Used for giving users info on e.x retry
	Info string
}

// Provider invokes a model. The descriptor is passed per request so that the
// session id stamped on it reaches the backend.
type Provider interface {
	SendMessages(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error)

	StreamResponse(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent
}

type providerClientOptions struct {
	apiKey        string
	baseURL       string
	maxTokens     int64
	systemMessage string

	anthropicOptions []AnthropicOption
	echoOptions      []EchoOption
	mockClient       *MockClient
}

type ProviderClientOption func(*providerClientOptions)

type ProviderClient interface {
	send(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error)
	stream(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent
}

type baseProvider[C ProviderClient] struct {
	options providerClientOptions
	client  C
}

func NewProvider(providerName models.ModelProvider, opts ...ProviderClientOption) (Provider, error) {
	clientOptions := providerClientOptions{}
	for _, o := range opts {
		o(&clientOptions)
	}
	switch providerName {
	case models.ProviderAnthropic:
		return &baseProvider[AnthropicClient]{
			options: clientOptions,
			client:  newAnthropicClient(clientOptions),
		}, nil
	case models.ProviderBedrock:
		clientOptions.anthropicOptions = append(clientOptions.anthropicOptions, WithAnthropicBedrock())
		return &baseProvider[AnthropicClient]{
			options: clientOptions,
			client:  newAnthropicClient(clientOptions),
		}, nil
	case models.ProviderOpenAI:
		return &baseProvider[OpenAIClient]{
			options: clientOptions,
			client:  newOpenAIClient(clientOptions),
		}, nil
	case models.ProviderGemini:
		client, err := newGeminiClient(clientOptions)
		if err != nil {
			return nil, err
		}
		return &baseProvider[GeminiClient]{
			options: clientOptions,
			client:  client,
		}, nil
	case models.ProviderEcho:
		return &baseProvider[EchoClient]{
			options: clientOptions,
			client:  newEchoClient(clientOptions),
		}, nil
	case models.ProviderMock:
		if clientOptions.mockClient == nil {
			return nil, fmt.Errorf("mock provider requires a mock client")
		}
		return &baseProvider[*MockClient]{
			options: clientOptions,
			client:  clientOptions.mockClient,
		}, nil
	}
	return nil, fmt.Errorf("provider not supported: %s", providerName)
}

// cleanMessages drops assistant messages that carry nothing the model should
// see: the empty placeholder of the turn being generated and failed turns.
func (p *baseProvider[C]) cleanMessages(messages []message.Message) (cleaned []message.Message) {
	for _, msg := range messages {
		if msg.Role == message.Assistant {
			if msg.Content == "" || msg.FinishReason == message.FinishReasonError {
				continue
			}
		}
		cleaned = append(cleaned, msg)
	}
	return
}

func (p *baseProvider[C]) SendMessages(ctx context.Context, model models.Descriptor, messages []message.Message) (*ProviderResponse, error) {
	return p.client.send(ctx, model, p.cleanMessages(messages))
}

func (p *baseProvider[C]) StreamResponse(ctx context.Context, model models.Descriptor, messages []message.Message) <-chan ProviderEvent {
	return p.client.stream(ctx, model, p.cleanMessages(messages))
}

func WithAPIKey(apiKey string) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.apiKey = apiKey
	}
}

func WithBaseURL(baseURL string) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.baseURL = baseURL
	}
}

func WithMaxTokens(maxTokens int64) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.maxTokens = maxTokens
	}
}

func WithSystemMessage(systemMessage string) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.systemMessage = systemMessage
	}
}

func WithAnthropicOptions(anthropicOptions ...AnthropicOption) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.anthropicOptions = anthropicOptions
	}
}

func WithEchoOptions(echoOptions ...EchoOption) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.echoOptions = echoOptions
	}
}

func WithMockClient(mockClient *MockClient) ProviderClientOption {
	return func(options *providerClientOptions) {
		options.mockClient = mockClient
	}
}

// maxTokensFor prefers the configured limit and falls back to the model default.
func maxTokensFor(opts providerClientOptions, model models.Descriptor) int64 {
	if opts.maxTokens > 0 {
		return opts.maxTokens
	}
	if model.DefaultMaxTokens > 0 {
		return model.DefaultMaxTokens
	}
	return 1024
}
