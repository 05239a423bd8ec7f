package models

type (
	ModelID       string
	ModelProvider string
)

// Descriptor tells a provider how to invoke a model. SessionID correlates a
// request with server-side session continuity and is only ever set on a
// per-request copy (see ForSession); registry entries keep it empty.
type Descriptor struct {
	ID               ModelID       `json:"id"`
	Name             string        `json:"name"`
	Provider         ModelProvider `json:"provider"`
	APIModel         string        `json:"api_model"`
	SessionID        string        `json:"session_id,omitempty"`
	ContextWindow    int64         `json:"context_window"`
	DefaultMaxTokens int64         `json:"default_max_tokens"`
}

// ForSession returns a copy of d stamped with sessionID.
func (d Descriptor) ForSession(sessionID string) Descriptor {
	d.SessionID = sessionID
	return d
}

const (
	ProviderMock ModelProvider = "__mock"
)

var SupportedModels = map[ModelID]Descriptor{}
