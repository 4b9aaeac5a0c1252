package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/radityaputra/tautan/internal/domain/entity"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
)

// In-memory repository fakes backing the service tests. They honor the
// same contracts as the Postgres implementations: conditional inserts
// report whether they changed anything, list results are copies, and
// ordering matches the store layer's ORDER BY clauses.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]entity.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]entity.User{}}
}

func (r *fakeUserRepo) addUser(username, email string) *entity.User {
	u := &entity.User{Username: username, Email: email, Password: "x", FullName: username}
	if err := r.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repo.ErrDuplicate
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("u%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetManyByIDs(_ context.Context, ids []string) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) SearchByUsername(_ context.Context, query, excludeID string, limit int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q := strings.ToLower(query)
	out := []entity.User{}
	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type followEdge struct{ follower, followee string }

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[followEdge]bool
	users *fakeUserRepo
}

func newFakeFollowRepo(users *fakeUserRepo) *fakeFollowRepo {
	return &fakeFollowRepo{edges: map[followEdge]bool{}, users: users}
}

func (r *fakeFollowRepo) Create(_ context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := followEdge{followerID, followeeID}
	if r.edges[e] {
		return false, nil
	}
	r.edges[e] = true
	return true, nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := followEdge{followerID, followeeID}
	if !r.edges[e] {
		return false, nil
	}
	delete(r.edges, e)
	return true, nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followeeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.edges[followEdge{followerID, followeeID}], nil
}

func (r *fakeFollowRepo) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for e := range r.edges {
		if e.followee == userID {
			out = append(out, e.follower)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeFollowRepo) FollowingIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for e := range r.edges {
		if e.follower == userID {
			out = append(out, e.followee)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeFollowRepo) Followers(ctx context.Context, userID string) ([]entity.User, error) {
	ids, _ := r.FollowerIDs(ctx, userID)
	return r.users.GetManyByIDs(ctx, ids)
}

func (r *fakeFollowRepo) Following(ctx context.Context, userID string) ([]entity.User, error) {
	ids, _ := r.FollowingIDs(ctx, userID)
	return r.users.GetManyByIDs(ctx, ids)
}

type likeKey struct{ post, user string }

type fakePostRepo struct {
	mu       sync.Mutex
	posts    []entity.Post
	likes    map[likeKey]bool
	comments map[string][]entity.Comment
	seq      int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{likes: map[likeKey]bool{}, comments: map[string][]entity.Comment{}}
}

func (r *fakePostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("p%d", r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.posts = append(r.posts, *p)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == id {
			p := r.posts[i]
			return &p, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.posts {
		if r.posts[i].ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			for k := range r.likes {
				if k.post == id {
					delete(r.likes, k)
				}
			}
			delete(r.comments, id)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (r *fakePostRepo) ListAll(_ context.Context) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Post, 0, len(r.posts))
	for i := len(r.posts) - 1; i >= 0; i-- {
		out = append(out, r.posts[i])
	}
	return out, nil
}

func (r *fakePostRepo) ListByUser(_ context.Context, userID string) ([]entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Post{}
	for i := len(r.posts) - 1; i >= 0; i-- {
		if r.posts[i].UserID == userID {
			out = append(out, r.posts[i])
		}
	}
	return out, nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{postID, userID}
	if r.likes[k] {
		return false, nil
	}
	r.likes[k] = true
	return true, nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := likeKey{postID, userID}
	if !r.likes[k] {
		return false, nil
	}
	delete(r.likes, k)
	return true, nil
}

func (r *fakePostRepo) LikeIDs(_ context.Context, postID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for k := range r.likes {
		if k.post == postID {
			out = append(out, k.user)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakePostRepo) LikesForPosts(ctx context.Context, postIDs []string) (map[string][]string, error) {
	out := map[string][]string{}
	for _, id := range postIDs {
		ids, _ := r.LikeIDs(ctx, id)
		if len(ids) > 0 {
			out[id] = ids
		}
	}
	return out, nil
}

func (r *fakePostRepo) AddComment(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = fmt.Sprintf("c%d", r.seq)
	c.CreatedAt = time.Now()
	r.comments[c.PostID] = append(r.comments[c.PostID], *c)
	return nil
}

func (r *fakePostRepo) Comments(_ context.Context, postID string) ([]entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Comment{}, r.comments[postID]...), nil
}

func (r *fakePostRepo) CommentsForPosts(ctx context.Context, postIDs []string) (map[string][]entity.Comment, error) {
	out := map[string][]entity.Comment{}
	for _, id := range postIDs {
		cs, _ := r.Comments(ctx, id)
		if len(cs) > 0 {
			out[id] = cs
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []entity.Notification
	seq           int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n.ID = fmt.Sprintf("n%d", r.seq)
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, userID string) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Notification{}
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].ToID == userID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ToID == userID {
			r.notifications[i].Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.ToID != userID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

// capturePublisher records every published event.
type capturePublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *capturePublisher) Publish(_ context.Context, ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) all() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event{}, p.events...)
}

// failingPublisher always errors, for the fire-and-forget contract.
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, Event) error {
	return errors.New("publish unavailable")
}

var (
	_ repo.UserRepository         = (*fakeUserRepo)(nil)
	_ repo.FollowRepository       = (*fakeFollowRepo)(nil)
	_ repo.PostRepository         = (*fakePostRepo)(nil)
	_ repo.NotificationRepository = (*fakeNotificationRepo)(nil)
)
