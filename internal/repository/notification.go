package repository

import (
	"context"
	"database/sql"

	"audicob/internal/domain"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, title, body, read, created_at)
		VALUES ($1, $2, $3, false, $4)
		RETURNING id`,
		n.UserID, n.Title, n.Body, n.CreatedAt,
	).Scan(&n.ID)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, body, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
