package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radityaputra/tautan/internal/domain/entity"
)

func TestStorePublisherWritesNotification(t *testing.T) {
	ctx := context.Background()
	notifications := newFakeNotificationRepo()
	pub := NewStorePublisher(notifications)

	require.NoError(t, pub.Publish(ctx, Event{Type: EventLike, FromID: "u1", ToID: "u2"}))

	stored, err := notifications.ListForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entity.NotificationLike, stored[0].Type)
	assert.Equal(t, "u1", stored[0].FromID)
	assert.Equal(t, "u2", stored[0].ToID)
	assert.False(t, stored[0].Read)
}

func TestStorePublisherSkipsSelfActions(t *testing.T) {
	ctx := context.Background()
	notifications := newFakeNotificationRepo()
	pub := NewStorePublisher(notifications)

	require.NoError(t, pub.Publish(ctx, Event{Type: EventComment, FromID: "u1", ToID: "u1"}))

	stored, err := notifications.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestStorePublisherSkipsNonNotificationEvents(t *testing.T) {
	ctx := context.Background()
	notifications := newFakeNotificationRepo()
	pub := NewStorePublisher(notifications)

	require.NoError(t, pub.Publish(ctx, Event{Type: EventUserRegistered, FromID: "u1", Email: "a@b.c"}))

	stored, err := notifications.ListForUser(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestNotificationTypeMapping(t *testing.T) {
	assert.Equal(t, entity.NotificationFollow, Event{Type: EventFollow}.NotificationType())
	assert.Equal(t, entity.NotificationLike, Event{Type: EventLike}.NotificationType())
	assert.Equal(t, entity.NotificationComment, Event{Type: EventComment}.NotificationType())
	assert.Empty(t, Event{Type: EventUserRegistered}.NotificationType())
}

func TestPublishHelperSwallowsFailures(t *testing.T) {
	// No logger, failing publisher: must not panic and must not propagate.
	publish(context.Background(), failingPublisher{}, nil, Event{Type: EventLike, FromID: "a", ToID: "b"})

	// Nil publisher is a no-op.
	publish(context.Background(), nil, nil, Event{Type: EventLike, FromID: "a", ToID: "b"})
}
