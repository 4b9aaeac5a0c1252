package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/radityaputra/tautan/internal/domain/entity"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
	"github.com/radityaputra/tautan/pkg/helpers"
)

var (
	ErrSelfFollow = errors.New("cannot follow yourself")
	ErrBioTooLong = errors.New("bio exceeds 150 characters")
)

const maxBioLength = 150

// UserService covers profiles, the follow graph, and user search.
type UserService struct {
	Users        repo.UserRepository
	Follows      repo.FollowRepository
	GCS          *storage.Client
	GCSBucket    string
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Events       EventPublisher
}

func NewUserService(users repo.UserRepository, follows repo.FollowRepository, gcs *storage.Client, gcsBucket string, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, events EventPublisher) *UserService {
	return &UserService{
		Users:        users,
		Follows:      follows,
		GCS:          gcs,
		GCSBucket:    gcsBucket,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Events:       events,
	}
}

// ProfileDetail is a public profile with both sides of the follow graph
// attached as id sets.
type ProfileDetail struct {
	entity.Profile
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// GetProfile returns the public profile plus follower/following id sets.
// The profile fields are served from the Redis cache when present; every
// profile mutation rewrites that cache.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*ProfileDetail, error) {
	var profile entity.Profile
	cached := false
	if s.Redis != nil {
		cached, _ = helpers.RedisGetJSON(ctx, s.Redis, profileKey(userID), &profile)
	}
	if !cached {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		profile = u.Profile()
		s.refreshProfileCache(ctx, u)
	}

	followers, err := s.Follows.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.Follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileDetail{Profile: profile, Followers: followers, Following: following}, nil
}

type UpdateProfileInput struct {
	FullName  string
	Bio       *string
	AvatarURL string
}

// UpdateProfile mutates the acting user's own profile fields and returns
// the authoritative record.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.Bio != nil {
		if utf8.RuneCountInString(*in.Bio) > maxBioLength {
			return nil, ErrBioTooLong
		}
		u.Bio = *in.Bio
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.refreshProfileCache(ctx, u)
	// Index latest profile to Elasticsearch
	_ = s.indexUser(ctx, u)
	return u, nil
}

// UploadAvatar streams an avatar to GCS and stores the resulting URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	url, err := s.uploadImageToGCS(ctx, "avatars", userID, r, filename, contentType)
	if err != nil {
		return "", err
	}
	u.AvatarURL = url
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	s.refreshProfileCache(ctx, u)
	_ = s.indexUser(ctx, u)
	return url, nil
}

func (s *UserService) uploadImageToGCS(ctx context.Context, prefix, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join(prefix, userID, id+ext))
	return helpers.UploadImageToGCS(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
}

// ToggleFollow flips the directed follow edge actor->target. It reports
// whether the actor is following the target after the call. The edge is a
// single join row, so there is no mirror update to keep consistent.
func (s *UserService) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, ErrSelfFollow
	}
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	// Deleting first doubles as the membership test: a removed row means
	// the edge existed and this call is an unfollow.
	removed, err := s.Follows.Delete(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}

	created, err := s.Follows.Create(ctx, actorID, targetID)
	if err != nil {
		return false, err
	}
	if created {
		publish(ctx, s.Events, s.Logger, Event{Type: EventFollow, FromID: actorID, ToID: targetID})
	}
	return true, nil
}

// Connections returns the acting user's followers and following,
// profile-resolved.
func (s *UserService) Connections(ctx context.Context, userID string) (followers, following []entity.Profile, err error) {
	followerUsers, err := s.Follows.Followers(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	followingUsers, err := s.Follows.Following(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return profilesOf(followerUsers), profilesOf(followingUsers), nil
}

func profilesOf(users []entity.User) []entity.Profile {
	out := make([]entity.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out
}

// Search matches usernames by case-insensitive substring, excluding the
// searcher. Elasticsearch serves the query when configured; the SQL ILIKE
// path is the authoritative fallback with identical filter semantics.
func (s *UserService) Search(ctx context.Context, actorID, query string) ([]entity.Profile, error) {
	if s.ES != nil && s.ESUsersIndex != "" {
		if profiles, err := s.searchES(ctx, actorID, query); err == nil {
			return profiles, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to sql")
		}
	}
	users, err := s.Users.SearchByUsername(ctx, query, actorID, 20)
	if err != nil {
		return nil, err
	}
	return profilesOf(users), nil
}

func (s *UserService) searchES(ctx context.Context, actorID, query string) ([]entity.Profile, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"wildcard": map[string]any{
						"username": map[string]any{
							"value":            "*" + strings.ToLower(query) + "*",
							"case_insensitive": true,
						},
					},
				},
				"must_not": map[string]any{
					"ids": map[string]any{"values": []string{actorID}},
				},
			},
		},
		"size": 20,
	}
	b, _ := json.Marshal(body)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source entity.Profile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]entity.Profile, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	b, _ := json.Marshal(u.Profile())
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

func (s *UserService) refreshProfileCache(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), u.Profile(), 24*time.Hour); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}
