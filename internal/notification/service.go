package notification

import (
	"context"

	"servimarket/internal/logger"
	"servimarket/internal/metrics"
)

// Pusher delivers an event to every live connection of a user,
// fire-and-forget. *presence.Registry satisfies this.
type Pusher interface {
	Emit(userID int, event string, data any) int
}

type Dispatcher interface {
	// CreateNotification always persists the notification; the row is the
	// delivery guarantee. The real-time push happens only when the user's
	// preference allows it and at least one live connection exists.
	CreateNotification(ctx context.Context, in CreateNotificationInput) (*Notification, error)

	GetUnreadCount(ctx context.Context, userID int) (int, error)
	GetNotifications(ctx context.Context, userID, limit, offset int) ([]Notification, error)
	MarkAsRead(ctx context.Context, userID, id int) (bool, error)
	MarkAllAsRead(ctx context.Context, userID int) error
}

type dispatcher struct {
	repo   Repository
	pusher Pusher
}

func NewDispatcher(repo Repository, pusher Pusher) Dispatcher {
	return &dispatcher{
		repo:   repo,
		pusher: pusher,
	}
}

func (d *dispatcher) CreateNotification(ctx context.Context, in CreateNotificationInput) (*Notification, error) {
	n, err := d.repo.Insert(ctx, in)
	if err != nil {
		return nil, err
	}
	metrics.RecordNotification(n.Type)

	pref, err := d.repo.GetPreference(ctx, in.UserID)
	if err != nil {
		// The row is stored; a preference read failure only suppresses the push.
		logger.Error("failed to read notification preference", "user_id", in.UserID, "error", err)
		return n, nil
	}

	// No preference row means push stays enabled: preferences are an opt-out.
	pushEnabled := pref == nil || pref.PushEnabled

	if pushEnabled {
		delivered := d.pusher.Emit(in.UserID, EventNewNotification, PushPayload{
			ID:        n.ID,
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			ActionURL: n.ActionURL,
			CreatedAt: n.CreatedAt,
		})
		if delivered > 0 {
			metrics.RecordNotificationPush()
		}
	}

	return n, nil
}

func (d *dispatcher) GetUnreadCount(ctx context.Context, userID int) (int, error) {
	return d.repo.UnreadCount(ctx, userID)
}

func (d *dispatcher) GetNotifications(ctx context.Context, userID, limit, offset int) ([]Notification, error) {
	return d.repo.ListByUser(ctx, userID, limit, offset)
}

func (d *dispatcher) MarkAsRead(ctx context.Context, userID, id int) (bool, error) {
	return d.repo.MarkAsRead(ctx, userID, id)
}

func (d *dispatcher) MarkAllAsRead(ctx context.Context, userID int) error {
	return d.repo.MarkAllAsRead(ctx, userID)
}
