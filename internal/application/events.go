package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/radityaputra/tautan/internal/domain/entity"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
	"github.com/radityaputra/tautan/pkg/helpers"
)

type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventFollow         EventType = "follow"
	EventLike           EventType = "like"
	EventComment        EventType = "comment"
)

// Event is published by the mutating services whenever an action should
// fan in to another user's inbox (or, for registrations, trigger a
// welcome email).
type Event struct {
	Type       EventType `json:"type"`
	FromID     string    `json:"from_id"`
	ToID       string    `json:"to_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Username   string    `json:"username,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NotificationType maps an engagement event to its notification type.
// Returns "" for events that do not produce notifications.
func (e Event) NotificationType() entity.NotificationType {
	switch e.Type {
	case EventFollow:
		return entity.NotificationFollow
	case EventLike:
		return entity.NotificationLike
	case EventComment:
		return entity.NotificationComment
	}
	return ""
}

// EventPublisher decouples the consistency-critical mutation path from the
// best-effort notification path. Implementations must swallow their own
// failures: a lost notification never fails the parent operation, so
// callers log the returned error and move on.
type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

// StorePublisher persists notification records synchronously. It is the
// default publisher when no message queue is configured.
type StorePublisher struct {
	Notifications repo.NotificationRepository
}

func NewStorePublisher(notifications repo.NotificationRepository) *StorePublisher {
	return &StorePublisher{Notifications: notifications}
}

func (p *StorePublisher) Publish(ctx context.Context, ev Event) error {
	typ := ev.NotificationType()
	if typ == "" {
		return nil
	}
	// Self-actions never notify.
	if ev.FromID == ev.ToID {
		return nil
	}
	n := &entity.Notification{Type: typ, FromID: ev.FromID, ToID: ev.ToID}
	return p.Notifications.Create(ctx, n)
}

// QueuePublisher hands events to RabbitMQ; cmd/worker consumes the queue,
// persists notifications, and sends welcome emails.
type QueuePublisher struct {
	Pub *helpers.RabbitPublisher
}

func NewQueuePublisher(pub *helpers.RabbitPublisher) *QueuePublisher {
	return &QueuePublisher{Pub: pub}
}

func (p *QueuePublisher) Publish(ctx context.Context, ev Event) error {
	if ev.Type != EventUserRegistered && ev.FromID == ev.ToID {
		return nil
	}
	return p.Pub.PublishJSON(ctx, ev)
}

// publish is the shared fire-and-forget helper used by the services.
func publish(ctx context.Context, pub EventPublisher, logger *logrus.Logger, ev Event) {
	if pub == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := pub.Publish(ctx, ev); err != nil && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"type": ev.Type,
			"from": ev.FromID,
			"to":   ev.ToID,
		}).Warn("event publish failed")
	}
}
