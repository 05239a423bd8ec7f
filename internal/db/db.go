package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{
		db: tx,
	}
}

type Querier interface {
	CreateConversation(ctx context.Context, arg CreateConversationParams) (Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	GetConversationByID(ctx context.Context, id string) (Conversation, error)
	ListConversations(ctx context.Context) ([]Conversation, error)
	UpdateConversation(ctx context.Context, arg UpdateConversationParams) (Conversation, error)

	CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error)
	DeleteMessage(ctx context.Context, id string) error
	DeleteConversationMessages(ctx context.Context, conversationID string) error
	GetMessage(ctx context.Context, id string) (Message, error)
	ListMessagesByConversation(ctx context.Context, conversationID string) ([]Message, error)
	UpdateMessage(ctx context.Context, arg UpdateMessageParams) error
}

var _ Querier = (*Queries)(nil)
