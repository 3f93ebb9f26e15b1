package chat

import "context"

type Repository interface {
	GetConversation(ctx context.Context, id int) (*Conversation, error)
	InsertMessage(ctx context.Context, conversationID, senderID int, text, messageType string) (*Message, error)
	ListMessages(ctx context.Context, conversationID, limit, offset int) ([]Message, error)
}
