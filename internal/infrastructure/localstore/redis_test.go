package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisBackend(t *testing.T, ttl time.Duration) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisBackend(client, ttl), mr
}

func TestRedisBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t, time.Hour)

	_, ok, err := backend.Get(ctx, "sid", KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Set(ctx, "sid", KeyCart, `[]`))

	value, ok, err := backend.Get(ctx, "sid", KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)
	assert.Equal(t, time.Hour, mr.TTL("localstore:sid:wouhouch_cart"))

	require.NoError(t, backend.Delete(ctx, "sid", KeyCart))
	assert.False(t, mr.Exists("localstore:sid:wouhouch_cart"))
}

func TestRedisBackend_Clear(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t, 0)

	require.NoError(t, backend.Set(ctx, "sid", KeyAuthToken, "t"))
	require.NoError(t, backend.Set(ctx, "sid", KeyUser, "{}"))
	require.NoError(t, backend.Set(ctx, "other", KeyAuthToken, "t2"))

	require.NoError(t, backend.Clear(ctx, "sid"))

	assert.False(t, mr.Exists("localstore:sid:authToken"))
	assert.False(t, mr.Exists("localstore:sid:user"))
	assert.False(t, mr.Exists("localstore:sid:__keys"))
	assert.True(t, mr.Exists("localstore:other:authToken"))
}

func TestRedisBackend_ErrorsAreWrapped(t *testing.T) {
	backend, mr := newRedisBackend(t, 0)
	mr.Close()

	_, _, err := backend.Get(context.Background(), "sid", KeyCart)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read wouhouch_cart")
}

func TestRedisBackend_SiteNamespaceNeverExpires(t *testing.T) {
	ctx := context.Background()
	backend, mr := newRedisBackend(t, 30*24*time.Hour)

	require.NoError(t, backend.Set(ctx, SiteNamespace, KeySiteSettings, `{"siteName":"Custom Gym"}`))
	require.NoError(t, backend.Set(ctx, "sid", KeyCart, `[]`))

	assert.Zero(t, mr.TTL("localstore:site:siteSettings"))
	assert.Zero(t, mr.TTL("localstore:site:__keys"))

	mr.FastForward(31 * 24 * time.Hour)

	value, ok, err := backend.Get(ctx, SiteNamespace, KeySiteSettings)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"siteName":"Custom Gym"}`, value)

	_, ok, err = backend.Get(ctx, "sid", KeyCart)
	require.NoError(t, err)
	assert.False(t, ok)
}
