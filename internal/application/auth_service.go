package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/radityaputra/tautan/internal/domain/entity"
	repo "github.com/radityaputra/tautan/internal/domain/repository"
	"github.com/radityaputra/tautan/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService covers registration, login, and acting-user resolution.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
	Events EventPublisher
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, events EventPublisher) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Redis: rdb, Logger: logger, Events: events}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}

// Register creates a user, returning the new user and a signed bearer token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	if _, err := s.Users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", ErrDuplicateUser
	}
	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, "", ErrDuplicateUser
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}
	u := &entity.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		FullName: in.FullName,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// Concurrent registration can slip past the pre-checks; the unique
		// constraints are authoritative.
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrDuplicateUser
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, "", err
	}

	publish(ctx, s.Events, s.Logger, Event{
		Type:     EventUserRegistered,
		FromID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
	})
	return u, token, nil
}

// Login verifies the credential and returns the user plus a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}
	s.cacheProfile(ctx, u)
	return u, token, nil
}

// Me resolves the acting user's own record.
func (s *AuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// cacheProfile keeps a best-effort copy of the public profile in Redis.
func (s *AuthService) cacheProfile(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, profileKey(u.ID), u.Profile(), 24*time.Hour); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("profile cache write failed")
	}
}
