package db

import (
	"context"
)

const createMessage = `-- name: CreateMessage :one
INSERT INTO messages (
    id,
    conversation_id,
    role,
    content,
    model_id,
    finish_reason,
    created_at,
    updated_at
) VALUES (
    ?, ?, ?, ?, ?, ?, strftime('%s', 'now'), strftime('%s', 'now')
)
RETURNING id, conversation_id, role, content, model_id, finish_reason, created_at, updated_at
`

type CreateMessageParams struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
	ModelID        string `json:"model_id"`
	FinishReason   string `json:"finish_reason"`
}

func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (Message, error) {
	row := q.db.QueryRowContext(ctx, createMessage,
		arg.ID,
		arg.ConversationID,
		arg.Role,
		arg.Content,
		arg.ModelID,
		arg.FinishReason,
	)
	var i Message
	err := row.Scan(
		&i.ID,
		&i.ConversationID,
		&i.Role,
		&i.Content,
		&i.ModelID,
		&i.FinishReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteMessage = `-- name: DeleteMessage :exec
DELETE FROM messages
WHERE id = ?
`

func (q *Queries) DeleteMessage(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteMessage, id)
	return err
}

const deleteConversationMessages = `-- name: DeleteConversationMessages :exec
DELETE FROM messages
WHERE conversation_id = ?
`

func (q *Queries) DeleteConversationMessages(ctx context.Context, conversationID string) error {
	_, err := q.db.ExecContext(ctx, deleteConversationMessages, conversationID)
	return err
}

const getMessage = `-- name: GetMessage :one
SELECT id, conversation_id, role, content, model_id, finish_reason, created_at, updated_at
FROM messages
WHERE id = ? LIMIT 1
`

func (q *Queries) GetMessage(ctx context.Context, id string) (Message, error) {
	row := q.db.QueryRowContext(ctx, getMessage, id)
	var i Message
	err := row.Scan(
		&i.ID,
		&i.ConversationID,
		&i.Role,
		&i.Content,
		&i.ModelID,
		&i.FinishReason,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listMessagesByConversation = `-- name: ListMessagesByConversation :many
SELECT id, conversation_id, role, content, model_id, finish_reason, created_at, updated_at
FROM messages
WHERE conversation_id = ?
ORDER BY created_at ASC, rowid ASC
`

func (q *Queries) ListMessagesByConversation(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := q.db.QueryContext(ctx, listMessagesByConversation, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Message{}
	for rows.Next() {
		var i Message
		if err := rows.Scan(
			&i.ID,
			&i.ConversationID,
			&i.Role,
			&i.Content,
			&i.ModelID,
			&i.FinishReason,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateMessage = `-- name: UpdateMessage :exec
UPDATE messages
SET
    content = ?,
    finish_reason = ?
WHERE id = ?
`

type UpdateMessageParams struct {
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
	ID           string `json:"id"`
}

func (q *Queries) UpdateMessage(ctx context.Context, arg UpdateMessageParams) error {
	_, err := q.db.ExecContext(ctx, updateMessage, arg.Content, arg.FinishReason, arg.ID)
	return err
}
