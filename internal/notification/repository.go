package notification

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Store is the persistence contract of the notification collection
type Store interface {
	// Create inserts n unless a notification with the same event key,
	// recipient and role already exists. It reports whether a row was inserted.
	Create(ctx context.Context, n *Notification) (bool, error)
	ListByRecipientID(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]*Notification, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkAsRead(ctx context.Context, recipientID string, notificationIDs []string) (int64, error)
	MarkAllAsRead(ctx context.Context, recipientID string) (int64, error)
}

// Repository handles notification data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const notificationColumns = `id, notification_id, recipient_id, recipient_role, event_type, event_key,
		work_id, crop_name, work_label, message, related_user_id, is_read, created_at`

// Create inserts a new notification into the database
func (r *Repository) Create(ctx context.Context, n *Notification) (bool, error) {
	query := `
		INSERT INTO notifications (notification_id, recipient_id, recipient_role, event_type, event_key,
			work_id, crop_name, work_label, message, related_user_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, $11)
		ON CONFLICT (event_key, recipient_id, recipient_role) DO NOTHING
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		n.NotificationID,
		n.RecipientID,
		n.RecipientRole,
		n.EventType,
		n.EventKey,
		n.WorkID,
		n.CropName,
		n.WorkLabel,
		n.Message,
		n.RelatedUserID,
		n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to create notification: %w", err)
	}

	return true, nil
}

// ListByRecipientID retrieves the newest notifications for a user
func (r *Repository) ListByRecipientID(ctx context.Context, recipientID string, limit int, unreadOnly bool) ([]*Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	if unreadOnly {
		query += ` AND is_read = false`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		n := &Notification{}
		if err := rows.Scan(
			&n.ID,
			&n.NotificationID,
			&n.RecipientID,
			&n.RecipientRole,
			&n.EventType,
			&n.EventKey,
			&n.WorkID,
			&n.CropName,
			&n.WorkLabel,
			&n.Message,
			&n.RelatedUserID,
			&n.IsRead,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, nil
}

// GetUnreadCount returns the count of unread notifications for a user
func (r *Repository) GetUnreadCount(ctx context.Context, recipientID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = false`
	if err := r.db.QueryRowContext(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks the given notifications of a user as read
func (r *Repository) MarkAsRead(ctx context.Context, recipientID string, notificationIDs []string) (int64, error) {
	query := `
		UPDATE notifications SET is_read = true
		WHERE recipient_id = $1 AND notification_id = ANY($2) AND is_read = false
	`
	res, err := r.db.ExecContext(ctx, query, recipientID, pq.Array(notificationIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return res.RowsAffected()
}

// MarkAllAsRead marks all notifications as read for a user
func (r *Repository) MarkAllAsRead(ctx context.Context, recipientID string) (int64, error) {
	query := `UPDATE notifications SET is_read = true WHERE recipient_id = $1 AND is_read = false`
	res, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return res.RowsAffected()
}
