package chat

import "github.com/opencode-ai/agentchat/internal/pubsub"

const (
	// LoadingChangedEvent fires whenever Loading or LoadingMessages flips.
	LoadingChangedEvent pubsub.EventType = "loading_changed"
	// MessagesChangedEvent fires whenever the message list or a message's
	// content changes.
	MessagesChangedEvent pubsub.EventType = "messages_changed"
)

// Event is published by a Session. Consumers read the current state back
// from the session; the payload only identifies it.
type Event struct {
	Path            string
	ConversationID  string
	Loading         bool
	LoadingMessages bool
	MessageCount    int
}
