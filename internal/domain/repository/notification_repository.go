package repository

import (
	"context"

	"github.com/radityaputra/tautan/internal/domain/entity"
)

// NotificationRepository persists fan-in notification records. All
// retrieval is scoped to a single recipient's inbox.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// ListForUser returns the recipient's notifications, newest first.
	ListForUser(ctx context.Context, userID string) ([]entity.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteForUser(ctx context.Context, userID string) error
}
