package chat

import "time"

type Conversation struct {
	ID        int       `db:"id" json:"id"`
	User1ID   int       `db:"user1_id" json:"user1_id"`
	User2ID   int       `db:"user2_id" json:"user2_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OtherParticipant returns the conversation member that is not userID.
func (c *Conversation) OtherParticipant(userID int) int {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// HasMember reports whether userID is one of the two participants.
func (c *Conversation) HasMember(userID int) bool {
	return c.User1ID == userID || c.User2ID == userID
}

type Message struct {
	ID             int       `db:"id" json:"id"`
	ConversationID int       `db:"conversation_id" json:"conversation_id"`
	SenderID       int       `db:"sender_id" json:"sender_id"`
	Message        string    `db:"message" json:"message"`
	MessageType    string    `db:"message_type" json:"message_type"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type SenderInfo struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
}

// MessageWithSender is the stored message merged with sender display info.
type MessageWithSender struct {
	Message
	Sender SenderInfo `json:"sender"`
}

type SendMessageRequest struct {
	Message     string `json:"message" binding:"required"`
	MessageType string `json:"message_type"`
}
