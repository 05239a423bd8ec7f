package models

const (
	ProviderGemini ModelProvider = "gemini"

	Gemini25      ModelID = "gemini-2.5"
	Gemini20Flash ModelID = "gemini-2.0-flash"
)

var GeminiModels = map[ModelID]Descriptor{
	Gemini25: {
		ID:               Gemini25,
		Name:             "Gemini 2.5 Pro",
		Provider:         ProviderGemini,
		APIModel:         "gemini-2.5-pro-preview-05-06",
		ContextWindow:    1000000,
		DefaultMaxTokens: 50000,
	},
	Gemini20Flash: {
		ID:               Gemini20Flash,
		Name:             "Gemini 2.0 Flash",
		Provider:         ProviderGemini,
		APIModel:         "gemini-2.0-flash",
		ContextWindow:    1000000,
		DefaultMaxTokens: 6000,
	},
}
