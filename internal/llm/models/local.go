package models

const (
	// ProviderEcho answers without any network access. It backs the default
	// model when no provider credentials are configured.
	ProviderEcho ModelProvider = "echo"

	LocalEcho ModelID = "local.echo"
)

var LocalModels = map[ModelID]Descriptor{
	LocalEcho: {
		ID:               LocalEcho,
		Name:             "Local: Echo",
		Provider:         ProviderEcho,
		APIModel:         "echo",
		ContextWindow:    8192,
		DefaultMaxTokens: 1024,
	},
}
