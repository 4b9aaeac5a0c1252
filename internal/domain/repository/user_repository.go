package repository

import (
	"context"

	"github.com/radityaputra/tautan/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// GetManyByIDs resolves a batch of users; missing ids are silently skipped.
	GetManyByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	// SearchByUsername performs a case-insensitive substring match on
	// username, excluding excludeID from the results.
	SearchByUsername(ctx context.Context, query, excludeID string, limit int) ([]entity.User, error)
}
