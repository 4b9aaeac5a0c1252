package entity

import "time"

type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
)

// Notification is a fan-in record referencing two users by id. It never
// references a post, so deleting a post leaves past notifications intact.
// A notification is never created with FromID == ToID.
type Notification struct {
	ID        string
	Type      NotificationType
	FromID    string
	ToID      string
	Read      bool
	CreatedAt time.Time
}

// NotificationView resolves the sender's public profile for the inbox payload.
type NotificationView struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	From      Profile          `json:"from"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
