package message

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/opencode-ai/agentchat/internal/errors"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/pubsub"
)

type MessageRole string

const (
	User      MessageRole = "user"
	Assistant MessageRole = "assistant"
)

type FinishReason string

const (
	FinishReasonEndTurn   FinishReason = "end_turn"
	FinishReasonMaxTokens FinishReason = "max_tokens"
	FinishReasonCanceled  FinishReason = "canceled"
	FinishReasonError     FinishReason = "error"
	FinishReasonUnknown   FinishReason = "unknown"
)

type Message struct {
	ID             string
	ConversationID string
	Role           MessageRole
	Content        string
	Model          models.ModelID
	FinishReason   FinishReason
	CreatedAt      int64
	UpdatedAt      int64
}

// IsFinished reports whether the message will receive no further content.
func (m Message) IsFinished() bool {
	return m.FinishReason != ""
}

type CreateMessageParams struct {
	Role    MessageRole
	Content string
	Model   models.ModelID
}

type Service interface {
	pubsub.Subscriber[Message]
	Create(ctx context.Context, conversationID string, params CreateMessageParams) (Message, error)
	Update(ctx context.Context, message Message) error
	Get(ctx context.Context, id string) (Message, error)
	List(ctx context.Context, conversationID string) ([]Message, error)
	Delete(ctx context.Context, id string) error
	DeleteConversationMessages(ctx context.Context, conversationID string) error
}

type service struct {
	*pubsub.Broker[Message]
	q db.Querier
}

func NewService(q db.Querier) Service {
	return &service{
		Broker: pubsub.NewBroker[Message](),
		q:      q,
	}
}

func (s *service) Create(ctx context.Context, conversationID string, params CreateMessageParams) (Message, error) {
	finish := ""
	if params.Role == User {
		finish = string(FinishReasonEndTurn)
	}
	dbMessage, err := s.q.CreateMessage(ctx, db.CreateMessageParams{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           string(params.Role),
		Content:        params.Content,
		ModelID:        string(params.Model),
		FinishReason:   finish,
	})
	if err != nil {
		return Message{}, errors.Wrap(errors.ErrInternal, err, "create message")
	}
	message := s.fromDBItem(dbMessage)
	s.Publish(pubsub.CreatedEvent, message)
	return message, nil
}

func (s *service) Update(ctx context.Context, message Message) error {
	err := s.q.UpdateMessage(ctx, db.UpdateMessageParams{
		ID:           message.ID,
		Content:      message.Content,
		FinishReason: string(message.FinishReason),
	})
	if err != nil {
		return errors.Wrap(errors.ErrInternal, err, "update message "+message.ID)
	}
	s.Publish(pubsub.UpdatedEvent, message)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (Message, error) {
	dbMessage, err := s.q.GetMessage(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Message{}, errors.Wrap(errors.ErrNotFound, err, "message "+id)
	}
	if err != nil {
		return Message{}, errors.Wrap(errors.ErrInternal, err, "get message "+id)
	}
	return s.fromDBItem(dbMessage), nil
}

func (s *service) List(ctx context.Context, conversationID string) ([]Message, error) {
	dbMessages, err := s.q.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, err, "list messages")
	}
	messages := make([]Message, len(dbMessages))
	for i, dbMessage := range dbMessages {
		messages[i] = s.fromDBItem(dbMessage)
	}
	return messages, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	message, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.q.DeleteMessage(ctx, message.ID); err != nil {
		return errors.Wrap(errors.ErrInternal, err, "delete message "+id)
	}
	s.Publish(pubsub.DeletedEvent, message)
	return nil
}

func (s *service) DeleteConversationMessages(ctx context.Context, conversationID string) error {
	messages, err := s.List(ctx, conversationID)
	if err != nil {
		return err
	}
	if err := s.q.DeleteConversationMessages(ctx, conversationID); err != nil {
		return errors.Wrap(errors.ErrInternal, err, "delete conversation messages")
	}
	for _, message := range messages {
		s.Publish(pubsub.DeletedEvent, message)
	}
	return nil
}

func (s *service) fromDBItem(item db.Message) Message {
	return Message{
		ID:             item.ID,
		ConversationID: item.ConversationID,
		Role:           MessageRole(item.Role),
		Content:        item.Content,
		Model:          models.ModelID(item.ModelID),
		FinishReason:   FinishReason(item.FinishReason),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
