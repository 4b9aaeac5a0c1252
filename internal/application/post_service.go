package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/radityaputra/tautan/internal/domain/entity"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
	"github.com/radityaputra/tautan/pkg/helpers"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrEmptyPost    = errors.New("post must contain text or an image")
	ErrEmptyComment = errors.New("comment text is required")
	ErrNotPostOwner = errors.New("not authorized to delete this post")
	ErrTextTooLong  = errors.New("text exceeds 500 characters")
)

const maxPostTextLength = 500

// PostService covers the post lifecycle and engagement mutations (likes,
// comments). Engagement writes are single conditional statements at the
// store layer; notification emission is best-effort via the publisher.
type PostService struct {
	Posts     repo.PostRepository
	Users     repo.UserRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
	Events    EventPublisher
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, gcs *storage.Client, gcsBucket string, logger *logrus.Logger, events EventPublisher) *PostService {
	return &PostService{Posts: posts, Users: users, GCS: gcs, GCSBucket: gcsBucket, Logger: logger, Events: events}
}

// ImageUpload carries an inbound multipart image toward object storage.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Create persists a new post owned by the acting user. Text and image are
// both optional, but at least one must be present.
func (s *PostService) Create(ctx context.Context, userID, text string, image *ImageUpload) (*entity.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == nil {
		return nil, ErrEmptyPost
	}
	if utf8.RuneCountInString(text) > maxPostTextLength {
		return nil, ErrTextTooLong
	}

	imageURL := ""
	if image != nil {
		url, err := s.uploadImage(ctx, userID, image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	p := &entity.Post{UserID: userID, Text: text, ImageURL: imageURL}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) uploadImage(ctx context.Context, userID string, image *ImageUpload) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(image.Filename))
	objectPath := filepath.ToSlash(filepath.Join("posts", userID, id+ext))
	return helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, image.ContentType, image.Reader)
}

// GetAll returns every post, newest first, with author and commenter
// profiles resolved.
func (s *PostService) GetAll(ctx context.Context) ([]entity.PostView, error) {
	posts, err := s.Posts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts)
}

// GetUserPosts returns one user's posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, userID string) ([]entity.PostView, error) {
	posts, err := s.Posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts)
}

func (s *PostService) buildViews(ctx context.Context, posts []entity.Post) ([]entity.PostView, error) {
	if len(posts) == 0 {
		return []entity.PostView{}, nil
	}

	postIDs := make([]string, 0, len(posts))
	for i := range posts {
		postIDs = append(postIDs, posts[i].ID)
	}

	likes, err := s.Posts.LikesForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := s.Posts.CommentsForPosts(ctx, postIDs)
	if err != nil {
		return nil, err
	}

	// Authors of posts and of every comment, deduplicated.
	seen := map[string]bool{}
	userIDs := []string{}
	addUser := func(id string) {
		if !seen[id] {
			seen[id] = true
			userIDs = append(userIDs, id)
		}
	}
	for i := range posts {
		addUser(posts[i].UserID)
	}
	for _, cs := range comments {
		for i := range cs {
			addUser(cs[i].UserID)
		}
	}

	users, err := s.Users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]entity.Profile, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Profile()
	}

	views := make([]entity.PostView, 0, len(posts))
	for i := range posts {
		p := posts[i]
		view := entity.PostView{
			ID:        p.ID,
			Author:    profiles[p.UserID],
			Text:      p.Text,
			ImageURL:  p.ImageURL,
			Likes:     likes[p.ID],
			Comments:  commentViews(comments[p.ID], profiles),
			CreatedAt: p.CreatedAt,
		}
		if view.Likes == nil {
			view.Likes = []string{}
		}
		views = append(views, view)
	}
	return views, nil
}

func commentViews(comments []entity.Comment, profiles map[string]entity.Profile) []entity.CommentView {
	out := make([]entity.CommentView, 0, len(comments))
	for i := range comments {
		c := comments[i]
		out = append(out, entity.CommentView{
			ID:        c.ID,
			Author:    profiles[c.UserID],
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return out
}

// Delete hard-deletes a post. Only the owner may delete; embedded likes
// and comments cascade, notifications are left alone.
func (s *PostService) Delete(ctx context.Context, actorID, postID string) error {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if p.UserID != actorID {
		return ErrNotPostOwner
	}
	return s.Posts.Delete(ctx, postID)
}

// ToggleLike flips the acting user's like membership on a post and returns
// the resulting like id list. Liking someone else's post notifies the
// owner; unliking never does.
func (s *PostService) ToggleLike(ctx context.Context, actorID, postID string) ([]string, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	// The insert doubles as the membership test: a conflict means the like
	// already existed and this call is an unlike.
	liked, err := s.Posts.AddLike(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if !liked {
		if _, err := s.Posts.RemoveLike(ctx, postID, actorID); err != nil {
			return nil, err
		}
	} else if p.UserID != actorID {
		publish(ctx, s.Events, s.Logger, Event{Type: EventLike, FromID: actorID, ToID: p.UserID})
	}

	return s.Posts.LikeIDs(ctx, postID)
}

// AddComment appends a comment and returns the full resulting comment
// list, author profiles resolved, in insertion order.
func (s *PostService) AddComment(ctx context.Context, actorID, postID, text string) ([]entity.CommentView, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}

	p, err := s.Posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	c := &entity.Comment{PostID: postID, UserID: actorID, Text: text}
	if err := s.Posts.AddComment(ctx, c); err != nil {
		return nil, err
	}
	if p.UserID != actorID {
		publish(ctx, s.Events, s.Logger, Event{Type: EventComment, FromID: actorID, ToID: p.UserID})
	}

	comments, err := s.Posts.Comments(ctx, postID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(comments))
	seen := map[string]bool{}
	for i := range comments {
		if !seen[comments[i].UserID] {
			seen[comments[i].UserID] = true
			userIDs = append(userIDs, comments[i].UserID)
		}
	}
	users, err := s.Users.GetManyByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	profiles := make(map[string]entity.Profile, len(users))
	for i := range users {
		profiles[users[i].ID] = users[i].Profile()
	}
	return commentViews(comments, profiles), nil
}
