package repository

import (
	"context"

	"github.com/radityaputra/tautan/internal/domain/entity"
)

// PostRepository defines persistence for posts and their engagement rows.
// Like and comment mutations are single conditional statements at the
// store layer, never read-modify-write of a whole record.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]entity.Post, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Post, error)

	// AddLike inserts the (post, user) membership. Returns false when the
	// user already liked the post.
	AddLike(ctx context.Context, postID, userID string) (bool, error)
	// RemoveLike deletes the membership. Returns false when it was absent.
	RemoveLike(ctx context.Context, postID, userID string) (bool, error)
	LikeIDs(ctx context.Context, postID string) ([]string, error)
	LikesForPosts(ctx context.Context, postIDs []string) (map[string][]string, error)

	AddComment(ctx context.Context, c *entity.Comment) error
	Comments(ctx context.Context, postID string) ([]entity.Comment, error)
	CommentsForPosts(ctx context.Context, postIDs []string) (map[string][]entity.Comment, error)
}
