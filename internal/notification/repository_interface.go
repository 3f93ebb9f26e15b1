package notification

import "context"

type Repository interface {
	Insert(ctx context.Context, in CreateNotificationInput) (*Notification, error)

	// GetPreference returns nil (and no error) when the user has no
	// preference row.
	GetPreference(ctx context.Context, userID int) (*Preference, error)

	UnreadCount(ctx context.Context, userID int) (int, error)
	ListByUser(ctx context.Context, userID, limit, offset int) ([]Notification, error)

	// MarkAsRead reports whether a matching unread-or-read row existed.
	MarkAsRead(ctx context.Context, userID, id int) (bool, error)
	MarkAllAsRead(ctx context.Context, userID int) error
}
