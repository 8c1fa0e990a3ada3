package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujalbistaa/twitclone/internal/models"
	"github.com/sujalbistaa/twitclone/internal/service"
)

func TestFollowAndProjections(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "test", f.bob.ID))
	require.NoError(t, f.svc.Follow(ctx, "test", f.bob.ID))

	var edges int64
	require.NoError(t, f.db.Model(&models.Follow{}).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	followers, err := f.svc.Followers(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, f.alice.ID, followers[0].ID)

	following, err := f.svc.Following(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Name)

	none, err := f.svc.Followers(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, []string{"follow"}, f.events.events)
}

func TestFollowersShowCurrentName(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "test", f.bob.ID))
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", f.alice.ID).Update("name", "alice-renamed").Error)

	profile, err := f.svc.UserProfile(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, profile.Followers, 1)
	assert.Equal(t, "alice-renamed", profile.Followers[0].Name)
}

func TestFollowErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	requireKind(t, service.KindInvalidArgument, f.svc.Follow(ctx, "test", f.alice.ID))
	requireKind(t, service.KindNotFound, f.svc.Follow(ctx, "test", 999))
	requireKind(t, service.KindUnauthorized, f.svc.Follow(ctx, "missing", f.bob.ID))
}

func TestUnfollow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// No edge yet: no-op.
	require.NoError(t, f.svc.Unfollow(ctx, "test", f.bob.ID))
	require.NoError(t, f.svc.Unfollow(ctx, "test", 999))

	require.NoError(t, f.svc.Follow(ctx, "test", f.bob.ID))
	require.NoError(t, f.svc.Unfollow(ctx, "test", f.bob.ID))

	followers, err := f.svc.Followers(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
	assert.Equal(t, []string{"follow", "unfollow"}, f.events.events)
}

func TestProfiles(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Follow(ctx, "test2", f.alice.ID))

	me, err := f.svc.Me(ctx, "test")
	require.NoError(t, err)
	assert.Equal(t, "alice", me.User.Name)
	require.Len(t, me.Followers, 1)
	assert.Equal(t, "bob", me.Followers[0].Name)
	assert.Empty(t, me.Following)

	_, err = f.svc.Me(ctx, "")
	requireKind(t, service.KindUnauthorized, err)

	_, err = f.svc.UserProfile(ctx, 12345)
	requireKind(t, service.KindNotFound, err)
}
