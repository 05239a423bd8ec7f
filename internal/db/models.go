package db

type Conversation struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ModelID      string `json:"model_id"`
	MessageCount int64  `json:"message_count"`
	UpdatedAt    int64  `json:"updated_at"`
	CreatedAt    int64  `json:"created_at"`
}

type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	ModelID        string `json:"model_id"`
	FinishReason   string `json:"finish_reason"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}
