package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/radityaputra/tautan/internal/domain/entity"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
)

// NotificationService exposes a user's own inbox and nothing else.
type NotificationService struct {
	Notifications repo.NotificationRepository
	Users         repo.UserRepository
	Logger        *logrus.Logger
}

func NewNotificationService(notifications repo.NotificationRepository, users repo.UserRepository, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Notifications: notifications, Users: users, Logger: logger}
}

// List returns the acting user's notifications, newest first, with sender
// profiles resolved. As a side effect every listed notification is marked
// read; a failed mark never hides the list itself.
func (s *NotificationService) List(ctx context.Context, userID string) ([]entity.NotificationView, error) {
	notifications, err := s.Notifications.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, len(notifications))
	seen := map[string]bool{}
	for i := range notifications {
		if !seen[notifications[i].FromID] {
			seen[notifications[i].FromID] = true
			senderIDs = append(senderIDs, notifications[i].FromID)
		}
	}
	users, err := s.Users.GetManyByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]entity.Profile, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Profile()
	}

	views := make([]entity.NotificationView, 0, len(notifications))
	for i := range notifications {
		n := notifications[i]
		views = append(views, entity.NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			From:      profiles[n.FromID],
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}

	if err := s.Notifications.MarkAllRead(ctx, userID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("mark notifications read failed")
	}
	return views, nil
}

// Clear deletes every notification addressed to the acting user.
func (s *NotificationService) Clear(ctx context.Context, userID string) error {
	return s.Notifications.DeleteForUser(ctx, userID)
}
