package notification

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, in CreateNotificationInput) (*Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, title, message, action_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, type, title, message, action_url, read, created_at
	`

	var n Notification
	err := r.db.GetContext(ctx, &n, query, in.UserID, in.Type, in.Title, in.Message, in.ActionURL)
	if err != nil {
		return nil, err
	}

	return &n, nil
}

func (r *repository) GetPreference(ctx context.Context, userID int) (*Preference, error) {
	var p Preference
	err := r.db.GetContext(ctx, &p,
		`SELECT user_id, push_enabled FROM notification_preferences WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListByUser(ctx context.Context, userID, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []Notification
	err := r.db.SelectContext(ctx, &notifications,
		`SELECT id, user_id, type, title, message, action_url, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	if notifications == nil {
		notifications = []Notification{}
	}
	return notifications, nil
}

func (r *repository) MarkAsRead(ctx context.Context, userID, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) MarkAllAsRead(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	return err
}
