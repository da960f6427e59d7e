package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentora/rentora/internal/domain"
)

const notificationColumns = `id, user_id, sender_id, type, title, message, link, subscription_id,
	        is_read, disabled, created_at`

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, sender_id, type, title, message, link, subscription_id,
		        is_read, disabled, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`,
		n.ID, n.UserID, n.SenderID, n.Type, n.Title, n.Message, n.Link, n.SubscriptionID,
		n.IsRead, n.Disabled,
	)
	if err != nil {
		return fmt.Errorf("notificationRepo.Create: %w", err)
	}

	return nil
}

func (r *NotificationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var n domain.Notification

	err := r.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`,
		id,
	).Scan(
		&n.ID, &n.UserID, &n.SenderID, &n.Type, &n.Title, &n.Message, &n.Link, &n.SubscriptionID,
		&n.IsRead, &n.Disabled, &n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("notificationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.GetByID: %w", err)
	}

	return &n, nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+`
		 FROM notifications WHERE user_id = $1 AND disabled = false
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows, "notificationRepo.ListByUser")
}

func (r *NotificationRepo) ListUnread(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+`
		 FROM notifications WHERE user_id = $1 AND is_read = false AND disabled = false
		 ORDER BY created_at
		 LIMIT 500`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("notificationRepo.ListUnread: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows, "notificationRepo.ListUnread")
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64

	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false AND disabled = false`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("notificationRepo.CountUnread: %w", err)
	}

	return n, nil
}

// MarkRead scopes the write to the owning user so one user cannot mark
// another's notifications.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND id = $2`,
		userID, id,
	)
	if err != nil {
		return fmt.Errorf("notificationRepo.MarkRead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("notificationRepo.MarkRead: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("notificationRepo.MarkAllRead: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *NotificationRepo) DisableRefundEligible(ctx context.Context, userID, subscriptionID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET disabled = true
		 WHERE user_id = $1 AND subscription_id = $2 AND type = $3`,
		userID, subscriptionID, domain.NotificationTypeRefundEligible,
	)
	if err != nil {
		return 0, fmt.Errorf("notificationRepo.DisableRefundEligible: %w", err)
	}

	return tag.RowsAffected(), nil
}

func scanNotifications(rows pgx.Rows, caller string) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.SenderID, &n.Type, &n.Title, &n.Message, &n.Link, &n.SubscriptionID,
			&n.IsRead, &n.Disabled, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return notifications, nil
}
