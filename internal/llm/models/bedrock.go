package models

const (
	ProviderBedrock ModelProvider = "bedrock"

	BedrockClaude37Sonnet ModelID = "bedrock.claude-3.7-sonnet"
	BedrockClaude35Haiku  ModelID = "bedrock.claude-3.5-haiku"
)

var BedrockModels = map[ModelID]Descriptor{
	BedrockClaude37Sonnet: {
		ID:               BedrockClaude37Sonnet,
		Name:             "Bedrock: Claude 3.7 Sonnet",
		Provider:         ProviderBedrock,
		APIModel:         "anthropic.claude-3-7-sonnet-20250219-v1:0",
		ContextWindow:    200000,
		DefaultMaxTokens: 8192,
	},
	BedrockClaude35Haiku: {
		ID:               BedrockClaude35Haiku,
		Name:             "Bedrock: Claude 3.5 Haiku",
		Provider:         ProviderBedrock,
		APIModel:         "anthropic.claude-3-5-haiku-20241022-v1:0",
		ContextWindow:    200000,
		DefaultMaxTokens: 4096,
	},
}
