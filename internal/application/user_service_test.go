package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radityaputra/tautan/internal/domain/entity"
)

func newUserService(pub EventPublisher) (*UserService, *fakeUserRepo, *fakeFollowRepo) {
	users := newFakeUserRepo()
	follows := newFakeFollowRepo(users)
	svc := NewUserService(users, follows, nil, "", nil, nil, nil, "", pub)
	return svc, users, follows
}

func TestToggleFollowRoundTrip(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	svc, users, follows := newUserService(pub)
	alice := users.addUser("alice", "alice@example.com")
	bob := users.addUser("bob", "bob@example.com")

	following, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Both sides of the graph derive from the one edge.
	followers, _ := follows.FollowerIDs(ctx, bob.ID)
	assert.Equal(t, []string{alice.ID}, followers)
	followingIDs, _ := follows.FollowingIDs(ctx, alice.ID)
	assert.Equal(t, []string{bob.ID}, followingIDs)

	following, err = svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	followers, _ = follows.FollowerIDs(ctx, bob.ID)
	assert.Empty(t, followers)
	followingIDs, _ = follows.FollowingIDs(ctx, alice.ID)
	assert.Empty(t, followingIDs)

	// Only the follow notifies; the unfollow is silent.
	events := pub.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventFollow, events[0].Type)
	assert.Equal(t, alice.ID, events[0].FromID)
	assert.Equal(t, bob.ID, events[0].ToID)
}

func TestToggleFollowSelfRejected(t *testing.T) {
	ctx := context.Background()
	pub := &capturePublisher{}
	svc, users, follows := newUserService(pub)
	alice := users.addUser("alice", "alice@example.com")

	_, err := svc.ToggleFollow(ctx, alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	exists, _ := follows.Exists(ctx, alice.ID, alice.ID)
	assert.False(t, exists)
	assert.Empty(t, pub.all())
}

func TestToggleFollowUnknownTarget(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	alice := users.addUser("alice", "alice@example.com")

	_, err := svc.ToggleFollow(ctx, alice.ID, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetProfileIncludesGraph(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	alice := users.addUser("alice", "alice@example.com")
	bob := users.addUser("bob", "bob@example.com")
	carol := users.addUser("carol", "carol@example.com")

	_, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(ctx, carol.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFollow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	detail, err := svc.GetProfile(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", detail.Username)
	assert.ElementsMatch(t, []string{alice.ID, carol.ID}, detail.Followers)
	assert.Equal(t, []string{alice.ID}, detail.Following)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestConnectionsResolvesProfiles(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	alice := users.addUser("alice", "alice@example.com")
	bob := users.addUser("bob", "bob@example.com")

	_, err := svc.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followers, following, err := svc.Connections(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)
	assert.Empty(t, following)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	alice := users.addUser("alice", "alice@example.com")

	bio := "building things"
	updated, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{FullName: "Alice T", Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Alice T", updated.FullName)
	assert.Equal(t, "building things", updated.Bio)

	stored, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice T", stored.FullName)
}

func TestUpdateProfileBioLimit(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	alice := users.addUser("alice", "alice@example.com")

	long := strings.Repeat("a", 151)
	_, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: &long})
	assert.ErrorIs(t, err, ErrBioTooLong)

	exact := strings.Repeat("a", 150)
	updated, err := svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: &exact})
	require.NoError(t, err)
	assert.Len(t, updated.Bio, 150)

	// The limit counts characters, not bytes.
	multibyte := strings.Repeat("é", 150)
	updated, err = svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: &multibyte})
	require.NoError(t, err)
	assert.Equal(t, multibyte, updated.Bio)

	tooMany := strings.Repeat("é", 151)
	_, err = svc.UpdateProfile(ctx, alice.ID, UpdateProfileInput{Bio: &tooMany})
	assert.ErrorIs(t, err, ErrBioTooLong)
}

// erroringUserRepo simulates a store outage on every lookup.
type erroringUserRepo struct {
	*fakeUserRepo
	err error
}

func (r *erroringUserRepo) GetByID(context.Context, string) (*entity.User, error) {
	return nil, r.err
}

func TestGetProfileReportsStoreFailures(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserRepo()
	boom := errors.New("connection refused")
	svc := NewUserService(&erroringUserRepo{fakeUserRepo: users, err: boom},
		newFakeFollowRepo(users), nil, "", nil, nil, nil, "", nil)

	_, err := svc.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	_, err = svc.ToggleFollow(ctx, "u1", "u2")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestSearchExcludesSearcher(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	anna := users.addUser("anna", "anna@example.com")
	users.addUser("annabel", "annabel@example.com")
	users.addUser("bob", "bob@example.com")

	results, err := svc.Search(ctx, anna.ID, "ann")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "annabel", results[0].Username)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newUserService(nil)
	actor := users.addUser("zed", "zed@example.com")
	users.addUser("Annabel", "annabel@example.com")

	results, err := svc.Search(ctx, actor.ID, "aNNa")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Annabel", results[0].Username)
}
