package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radityaputra/tautan/pkg/helpers"
)

func newAuthService(pub EventPublisher) (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(users, jwt, nil, nil, pub), users
}

func TestRegisterLoginMe(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(nil)

	u, token, err := svc.Register(ctx, RegisterInput{
		Username: "mira",
		Email:    "mira@example.com",
		Password: "secret1",
		FullName: "Mira Lestari",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "secret1", u.Password, "password must be stored hashed")

	logged, loginToken, err := svc.Login(ctx, "mira@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	assert.NotEmpty(t, loginToken)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "mira", me.Username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(nil)

	_, _, err := svc.Register(ctx, RegisterInput{
		Username: "mira", Email: "mira@example.com", Password: "secret1", FullName: "Mira",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "mira@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(nil)

	_, _, err := svc.Register(ctx, RegisterInput{
		Username: "mira", Email: "mira@example.com", Password: "secret1", FullName: "Mira",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterInput{
		Username: "other", Email: "mira@example.com", Password: "secret1", FullName: "Other",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)

	_, _, err = svc.Register(ctx, RegisterInput{
		Username: "mira", Email: "fresh@example.com", Password: "secret1", FullName: "Other",
	})
	assert.ErrorIs(t, err, ErrDuplicateUser)
}

func TestRegisterPublishesRegistrationEvent(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	svc, _ := newAuthService(pub)

	u, _, err := svc.Register(ctx, RegisterInput{
		Username: "mira", Email: "mira@example.com", Password: "secret1", FullName: "Mira",
	})
	require.NoError(t, err)

	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventUserRegistered, events[0].Type)
	assert.Equal(t, u.ID, events[0].FromID)
	assert.Equal(t, "mira@example.com", events[0].Email)
	assert.Equal(t, "mira", events[0].Username)
	assert.False(t, events[0].OccurredAt.IsZero())
}

func TestProfileNeverExposesCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(nil)

	u, _, err := svc.Register(ctx, RegisterInput{
		Username: "mira", Email: "mira@example.com", Password: "secret1", FullName: "Mira",
	})
	require.NoError(t, err)

	b, err := json.Marshal(u.Profile())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), u.Password)
	assert.NotContains(t, string(b), "mira@example.com")
}
