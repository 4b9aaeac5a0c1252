package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radityaputra/tautan/internal/domain/entity"
	"github.com/radityaputra/tautan/internal/domain/repository"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO notifications (type, from_user, to_user)
		VALUES ($1, $2, $3)
		RETURNING id, read, created_at
	`, string(n.Type), n.FromID, n.ToID)
	return row.Scan(&n.ID, &n.Read, &n.CreatedAt)
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID string) ([]entity.Notification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, type, from_user, to_user, read, created_at
		FROM notifications
		WHERE to_user = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []entity.Notification{}
	for rows.Next() {
		var n entity.Notification
		var typ string
		if err := rows.Scan(&n.ID, &typ, &n.FromID, &n.ToID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Type = entity.NotificationType(typ)
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE WHERE to_user = $1 AND NOT read
	`, userID)
	return err
}

func (r *NotificationRepository) DeleteForUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM notifications WHERE to_user = $1
	`, userID)
	return err
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)
