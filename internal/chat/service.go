package chat

import (
	"context"
	"errors"
	"fmt"

	"servimarket/internal/logger"
	"servimarket/internal/metrics"
	"servimarket/internal/notification"
	"servimarket/internal/user"
)

// Mailer queues an offline message notice. *email.Service satisfies this.
type Mailer interface {
	SendNewMessageNotice(ctx context.Context, to, name, senderName string) error
}

// Presence reports whether a user holds at least one live connection.
// *presence.Registry satisfies this.
type Presence interface {
	IsOnline(userID int) bool
}

type Service interface {
	// CanSendMessage reports whether userID may post into the conversation:
	// true iff the conversation exists and userID is one of its two members.
	CanSendMessage(ctx context.Context, conversationID, userID int) (bool, error)

	// CreateMessage stores the message and notifies the other participant.
	// It does not re-check CanSendMessage; callers gate access first.
	CreateMessage(ctx context.Context, conversationID, senderID int, text, messageType string) (*MessageWithSender, error)

	GetMessages(ctx context.Context, conversationID, limit, offset int) ([]Message, error)
}

type service struct {
	repo     Repository
	users    user.Repository
	notifier notification.Dispatcher
	presence Presence
	mailer   Mailer
}

func NewService(repo Repository, users user.Repository, notifier notification.Dispatcher, presence Presence, mailer Mailer) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		presence: presence,
		mailer:   mailer,
	}
}

func (s *service) CanSendMessage(ctx context.Context, conversationID, userID int) (bool, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			return false, nil
		}
		return false, err
	}
	return conv.HasMember(userID), nil
}

func (s *service) CreateMessage(ctx context.Context, conversationID, senderID int, text, messageType string) (*MessageWithSender, error) {
	if messageType == "" {
		messageType = "text"
	}

	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.InsertMessage(ctx, conversationID, senderID, text, messageType)
	if err != nil {
		return nil, err
	}
	metrics.RecordMessage()

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender: %w", err)
	}

	recipient := conv.OtherParticipant(senderID)
	_, err = s.notifier.CreateNotification(ctx, notification.CreateNotificationInput{
		UserID:    recipient,
		Type:      notification.TypeNewMessage,
		Title:     sender.Name,
		Message:   preview(text),
		ActionURL: fmt.Sprintf("/conversations/%d", conversationID),
	})
	if err != nil {
		// The message is stored; a notification failure must not undo it.
		logger.Error("failed to notify message recipient",
			"conversation_id", conversationID, "recipient", recipient, "error", err)
	}

	// A recipient with no live connection gets an email notice instead of
	// the real-time push. Best-effort, same as the notification above.
	if s.mailer != nil && s.presence != nil && !s.presence.IsOnline(recipient) {
		if rcpt, err := s.users.FindByID(ctx, recipient); err == nil {
			if err := s.mailer.SendNewMessageNotice(ctx, rcpt.Email, rcpt.Name, sender.Name); err != nil {
				logger.Error("failed to queue message notice",
					"conversation_id", conversationID, "recipient", recipient, "error", err)
			}
		}
	}

	return &MessageWithSender{
		Message: *m,
		Sender:  SenderInfo{ID: sender.ID, FullName: sender.Name},
	}, nil
}

func (s *service) GetMessages(ctx context.Context, conversationID, limit, offset int) ([]Message, error) {
	return s.repo.ListMessages(ctx, conversationID, limit, offset)
}

// preview truncates long message bodies for the notification row.
func preview(text string) string {
	const max = 120
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}
