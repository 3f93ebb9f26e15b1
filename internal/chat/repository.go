package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrConversationNotFound = errors.New("conversation not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetConversation(ctx context.Context, id int) (*Conversation, error) {
	var conv Conversation
	err := r.db.GetContext(ctx, &conv,
		`SELECT id, user1_id, user2_id, created_at FROM conversations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *repository) InsertMessage(ctx context.Context, conversationID, senderID int, text, messageType string) (*Message, error) {
	query := `
		INSERT INTO messages (conversation_id, sender_id, message, message_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, conversation_id, sender_id, message, message_type, created_at
	`

	var m Message
	err := r.db.GetContext(ctx, &m, query, conversationID, senderID, text, messageType)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) ListMessages(ctx context.Context, conversationID, limit, offset int) ([]Message, error) {
	if limit <= 0 {
		limit = 50
	}

	var messages []Message
	err := r.db.SelectContext(ctx, &messages,
		`SELECT id, conversation_id, sender_id, message, message_type, created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at ASC
		 LIMIT $2 OFFSET $3`,
		conversationID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}
