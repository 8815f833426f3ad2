package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goverland-labs/goverland-profile-storage/internal/cache"
)

func TestUnitListProfiles(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dir := NewDirectory(env.remote, env.cache)

	require.True(t, env.repo.CreateProfile(ctx, &Profile{ID: "b", UserName: "Bia"}))
	require.True(t, env.repo.CreateProfile(ctx, &Profile{ID: "a", UserName: "Ana"}))

	list, err := dir.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a", list[0].ID)
	require.Equal(t, "Ana", list[0].UserName)
	require.Equal(t, "b", list[1].ID)

	cached, ok := cache.GetAs[[]Profile](ctx, env.cache, "users_all")
	require.True(t, ok)
	require.Equal(t, list, cached)

	t.Run("write invalidates listing", func(t *testing.T) {
		require.True(t, env.repo.CreateProfile(ctx, &Profile{ID: "c", UserName: "Caio"}))

		list, err := dir.ListProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
	})
}

func TestUnitListProfilesServedFromCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	fr := &failingRemote{}
	dir := NewDirectory(fr, env.cache)

	env.cache.Set(ctx, "users_all", []Profile{{ID: "a"}}, 0)

	list, err := dir.ListProfiles(ctx)
	require.NoError(t, err)
	require.Equal(t, []Profile{{ID: "a"}}, list)
	require.Zero(t, fr.reads)
}

func TestUnitListProfilesRemoteFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dir := NewDirectory(&failingRemote{}, env.cache)

	_, err := dir.ListProfiles(ctx)
	require.ErrorIs(t, err, errRemote)

	var list []Profile
	require.False(t, env.cache.Get(ctx, "users_all", &list))
}
