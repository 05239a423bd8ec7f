package models

const (
	ProviderAnthropic ModelProvider = "anthropic"

	// Models
	Claude35Sonnet ModelID = "claude-3.5-sonnet"
	Claude37Sonnet ModelID = "claude-3.7-sonnet"
	Claude35Haiku  ModelID = "claude-3.5-haiku"
)

var AnthropicModels = map[ModelID]Descriptor{
	Claude35Sonnet: {
		ID:               Claude35Sonnet,
		Name:             "Claude 3.5 Sonnet",
		Provider:         ProviderAnthropic,
		APIModel:         "claude-3-5-sonnet-latest",
		ContextWindow:    200000,
		DefaultMaxTokens: 5000,
	},
	Claude37Sonnet: {
		ID:               Claude37Sonnet,
		Name:             "Claude 3.7 Sonnet",
		Provider:         ProviderAnthropic,
		APIModel:         "claude-3-7-sonnet-latest",
		ContextWindow:    200000,
		DefaultMaxTokens: 8192,
	},
	Claude35Haiku: {
		ID:               Claude35Haiku,
		Name:             "Claude 3.5 Haiku",
		Provider:         ProviderAnthropic,
		APIModel:         "claude-3-5-haiku-latest",
		ContextWindow:    200000,
		DefaultMaxTokens: 4096,
	},
}
