package conversation

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/opencode-ai/agentchat/internal/errors"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
)

type Conversation struct {
	ID           string
	Title        string
	ModelID      models.ModelID
	MessageCount int64
	CreatedAt    int64
	UpdatedAt    int64
}

type Service interface {
	pubsub.Subscriber[Conversation]
	Create(ctx context.Context, title string, modelID models.ModelID) (Conversation, error)
	Get(ctx context.Context, id string) (Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	Save(ctx context.Context, conversation Conversation) (Conversation, error)
	Delete(ctx context.Context, id string) error
	// ConversationTitle returns the stored title, or "" when the conversation
	// cannot be found.
	ConversationTitle(id string) string
}

type service struct {
	*pubsub.Broker[Conversation]
	q   db.Querier
	ctx context.Context
}

func (s *service) Create(ctx context.Context, title string, modelID models.ModelID) (Conversation, error) {
	dbConversation, err := s.q.CreateConversation(ctx, db.CreateConversationParams{
		ID:      uuid.New().String(),
		Title:   title,
		ModelID: string(modelID),
	})
	if err != nil {
		return Conversation{}, errors.Wrap(errors.ErrInternal, err, "create conversation")
	}
	conversation := s.fromDBItem(dbConversation)
	s.Publish(pubsub.CreatedEvent, conversation)
	return conversation, nil
}

func (s *service) Get(ctx context.Context, id string) (Conversation, error) {
	dbConversation, err := s.q.GetConversationByID(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return Conversation{}, errors.Wrap(errors.ErrNotFound, err, "conversation "+id)
	}
	if err != nil {
		return Conversation{}, errors.Wrap(errors.ErrInternal, err, "get conversation "+id)
	}
	return s.fromDBItem(dbConversation), nil
}

func (s *service) List(ctx context.Context) ([]Conversation, error) {
	dbConversations, err := s.q.ListConversations(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, err, "list conversations")
	}
	conversations := make([]Conversation, len(dbConversations))
	for i, dbConversation := range dbConversations {
		conversations[i] = s.fromDBItem(dbConversation)
	}
	return conversations, nil
}

func (s *service) Save(ctx context.Context, conversation Conversation) (Conversation, error) {
	dbConversation, err := s.q.UpdateConversation(ctx, db.UpdateConversationParams{
		ID:      conversation.ID,
		Title:   conversation.Title,
		ModelID: string(conversation.ModelID),
	})
	if stderrors.Is(err, sql.ErrNoRows) {
		return Conversation{}, errors.Wrap(errors.ErrNotFound, err, "conversation "+conversation.ID)
	}
	if err != nil {
		return Conversation{}, errors.Wrap(errors.ErrInternal, err, "save conversation "+conversation.ID)
	}
	conversation = s.fromDBItem(dbConversation)
	s.Publish(pubsub.UpdatedEvent, conversation)
	return conversation, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	conversation, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.q.DeleteConversation(ctx, conversation.ID); err != nil {
		return errors.Wrap(errors.ErrInternal, err, "delete conversation "+id)
	}
	s.Publish(pubsub.DeletedEvent, conversation)
	return nil
}

func (s *service) ConversationTitle(id string) string {
	if id == "" {
		return ""
	}
	conversation, err := s.Get(s.ctx, id)
	if err != nil {
		logging.Debug("Conversation title lookup failed", "id", id, "error", err)
		return ""
	}
	return conversation.Title
}

func (s *service) fromDBItem(item db.Conversation) Conversation {
	return Conversation{
		ID:           item.ID,
		Title:        item.Title,
		ModelID:      models.ModelID(item.ModelID),
		MessageCount: item.MessageCount,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func NewService(ctx context.Context, q db.Querier) Service {
	return &service{
		Broker: pubsub.NewBroker[Conversation](),
		q:      q,
		ctx:    ctx,
	}
}
