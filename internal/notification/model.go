package notification

import "time"

// Notification kinds form a closed set; the push payload shape is fixed for
// all of them.
const (
	TypeNewMessage       = "new_message"
	TypePaymentConfirmed = "payment_confirmed"
	TypeSystem           = "system"
)

// EventNewNotification is the event name emitted over live connections.
const EventNewNotification = "new_notification"

type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	ActionURL string    `db:"action_url" json:"action_url"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Preference struct {
	UserID      int  `db:"user_id" json:"user_id"`
	PushEnabled bool `db:"push_enabled" json:"push_enabled"`
}

type CreateNotificationInput struct {
	UserID    int
	Type      string
	Title     string
	Message   string
	ActionURL string
}

// PushPayload is the wire shape of a new_notification event.
type PushPayload struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActionURL string    `json:"actionUrl"`
	CreatedAt time.Time `json:"created_at"`
}
