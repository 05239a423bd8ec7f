package db

import (
	"context"
)

const createConversation = `-- name: CreateConversation :one
INSERT INTO conversations (
    id,
    title,
    model_id,
    message_count,
    updated_at,
    created_at
) VALUES (
    ?,
    ?,
    ?,
    0,
    strftime('%s', 'now'),
    strftime('%s', 'now')
) RETURNING id, title, model_id, message_count, updated_at, created_at
`

type CreateConversationParams struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	ModelID string `json:"model_id"`
}

func (q *Queries) CreateConversation(ctx context.Context, arg CreateConversationParams) (Conversation, error) {
	row := q.db.QueryRowContext(ctx, createConversation, arg.ID, arg.Title, arg.ModelID)
	var i Conversation
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ModelID,
		&i.MessageCount,
		&i.UpdatedAt,
		&i.CreatedAt,
	)
	return i, err
}

const deleteConversation = `-- name: DeleteConversation :exec
DELETE FROM conversations
WHERE id = ?
`

func (q *Queries) DeleteConversation(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteConversation, id)
	return err
}

const getConversationByID = `-- name: GetConversationByID :one
SELECT id, title, model_id, message_count, updated_at, created_at
FROM conversations
WHERE id = ? LIMIT 1
`

func (q *Queries) GetConversationByID(ctx context.Context, id string) (Conversation, error) {
	row := q.db.QueryRowContext(ctx, getConversationByID, id)
	var i Conversation
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ModelID,
		&i.MessageCount,
		&i.UpdatedAt,
		&i.CreatedAt,
	)
	return i, err
}

const listConversations = `-- name: ListConversations :many
SELECT id, title, model_id, message_count, updated_at, created_at
FROM conversations
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListConversations(ctx context.Context) ([]Conversation, error) {
	rows, err := q.db.QueryContext(ctx, listConversations)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Conversation{}
	for rows.Next() {
		var i Conversation
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.ModelID,
			&i.MessageCount,
			&i.UpdatedAt,
			&i.CreatedAt,
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

const updateConversation = `-- name: UpdateConversation :one
UPDATE conversations
SET
    title = ?,
    model_id = ?
WHERE id = ?
RETURNING id, title, model_id, message_count, updated_at, created_at
`

type UpdateConversationParams struct {
	Title   string `json:"title"`
	ModelID string `json:"model_id"`
	ID      string `json:"id"`
}

func (q *Queries) UpdateConversation(ctx context.Context, arg UpdateConversationParams) (Conversation, error) {
	row := q.db.QueryRowContext(ctx, updateConversation, arg.Title, arg.ModelID, arg.ID)
	var i Conversation
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.ModelID,
		&i.MessageCount,
		&i.UpdatedAt,
		&i.CreatedAt,
	)
	return i, err
}
