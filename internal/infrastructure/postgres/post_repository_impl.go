package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/radityaputra/tautan/internal/domain/entity"
	"github.com/radityaputra/tautan/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, user_id, text, image_url, created_at, updated_at`

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (user_id, text, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.UserID, p.Text, p.ImageURL)
	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	p := &entity.Post{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
	`, id)
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete hard-deletes the post; likes and comments go with it via ON
// DELETE CASCADE. Notifications are not touched, they reference users only.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) ListAll(ctx context.Context) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]entity.Post, error) {
	posts := []entity.Post{}
	for rows.Next() {
		var p entity.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Text, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`, postID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		DELETE FROM post_likes
		WHERE post_id = $1 AND user_id = $2
	`, postID, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (r *PostRepository) LikeIDs(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at
	`, postID)
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

func (r *PostRepository) LikesForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	likes := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return likes, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT post_id, user_id
		FROM post_likes
		WHERE post_id = ANY($1)
		ORDER BY created_at
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, err
		}
		likes[postID] = append(likes[postID], userID)
	}
	return likes, rows.Err()
}

func (r *PostRepository) AddComment(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (post_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.PostID, c.UserID, c.Text)
	return row.Scan(&c.ID, &c.CreatedAt)
}

func (r *PostRepository) Comments(ctx context.Context, postID string) ([]entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, user_id, text, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (r *PostRepository) CommentsForPosts(ctx context.Context, postIDs []string) (map[string][]entity.Comment, error) {
	comments := make(map[string][]entity.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return comments, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, post_id, user_id, text, created_at
		FROM comments
		WHERE post_id = ANY($1)
		ORDER BY created_at, id
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	all, err := collectComments(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		comments[c.PostID] = append(comments[c.PostID], c)
	}
	return comments, nil
}

func collectComments(rows pgx.Rows) ([]entity.Comment, error) {
	comments := []entity.Comment{}
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)
