package repository

import (
	"context"

	"github.com/radityaputra/tautan/internal/domain/entity"
)

// FollowRepository persists directed follow edges as normalized join rows.
// Both sides of the relationship (follower and following sets) are derived
// from the same row, so a single insert or delete keeps them consistent.
type FollowRepository interface {
	// Create inserts the edge follower->followee. Returns false when the
	// edge already existed.
	Create(ctx context.Context, followerID, followeeID string) (bool, error)
	// Delete removes the edge. Returns false when it did not exist.
	Delete(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]entity.User, error)
	Following(ctx context.Context, userID string) ([]entity.User, error)
}
