package postgres

import (
	"context"
	"encoding/json"
	"time"

	"propshare-backend/internal/domain"
	"propshare-backend/internal/repository"
)

type notificationRepository struct {
	q Querier
}

func NewNotificationRepository(q Querier) repository.NotificationRepository {
	return &notificationRepository{q: q}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return domain.NewInternalError(err)
	}
	query := `INSERT INTO notifications (user_id, property_id, title, message, attributes, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, false, $6) RETURNING id`
	now := time.Now()
	if err := r.q.QueryRowContext(ctx, query, n.UserID, n.PropertyID, n.Title, n.Message, attrs, now).Scan(&n.ID); err != nil {
		return domain.NewInternalError(err)
	}
	n.CreatedAt = now
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.q.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, domain.NewInternalError(err)
	}

	query := `SELECT id, user_id, property_id, title, message, attributes, read, created_at
	          FROM notifications WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.PropertyID, &n.Title, &n.Message, &attrs, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, domain.NewInternalError(err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, domain.NewInternalError(err)
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int32) error {
	result, err := r.q.ExecContext(ctx, `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return domain.NewInternalError(err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.NewNotFoundError("notification")
	}
	return nil
}
