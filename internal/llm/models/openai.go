package models

const (
	ProviderOpenAI ModelProvider = "openai"

	GPT41     ModelID = "gpt-4.1"
	GPT4oMini ModelID = "gpt-4o-mini"
)

var OpenAIModels = map[ModelID]Descriptor{
	GPT41: {
		ID:               GPT41,
		Name:             "GPT 4.1",
		Provider:         ProviderOpenAI,
		APIModel:         "gpt-4.1",
		ContextWindow:    1047576,
		DefaultMaxTokens: 20000,
	},
	GPT4oMini: {
		ID:               GPT4oMini,
		Name:             "GPT 4o mini",
		Provider:         ProviderOpenAI,
		APIModel:         "gpt-4o-mini",
		ContextWindow:    128000,
		DefaultMaxTokens: 4096,
	},
}
