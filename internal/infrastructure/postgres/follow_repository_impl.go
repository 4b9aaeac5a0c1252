package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radityaputra/tautan/internal/domain/entity"
	"github.com/radityaputra/tautan/internal/domain/repository"
)

// FollowRepository stores each follow edge as a single row, so follower
// and following sets can never drift apart.
type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		)
	`, followerID, followeeID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.collectIDs(ctx, `
		SELECT follower_id FROM follows WHERE followee_id = $1 ORDER BY created_at
	`, userID)
}

func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.collectIDs(ctx, `
		SELECT followee_id FROM follows WHERE follower_id = $1 ORDER BY created_at
	`, userID)
}

func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+joinedUserColumns+`
		FROM users u
		JOIN follows f ON f.follower_id = u.id
		WHERE f.followee_id = $1
		ORDER BY f.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *FollowRepository) Following(ctx context.Context, userID string) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+joinedUserColumns+`
		FROM users u
		JOIN follows f ON f.followee_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *FollowRepository) collectIDs(ctx context.Context, sql string, arg string) ([]string, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
