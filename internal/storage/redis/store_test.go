package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/vault-console/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, store.Set(ctx, "origin:user", `{"user_id":7}`))
	require.NoError(t, store.Set(ctx, "origin:userRole", "1"))

	v, err := store.Get(ctx, "origin:user")
	require.NoError(t, err)
	assert.Equal(t, `{"user_id":7}`, v)
	assert.Zero(t, mr.TTL("origin:user"), "entries must not expire")

	require.NoError(t, store.Delete(ctx, "origin:user", "origin:userRole", "origin:missing"))
	_, err = store.Get(ctx, "origin:user")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.False(t, mr.Exists("origin:userRole"))
}

func TestStoreReportsUnavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)
	mr.Close()

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, store.Set(ctx, "k", "v"), ErrUnavailable)
}

func TestOpenPingsServer(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	store, err := Open(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Close())

	_, err = Open(ctx, "not a url")
	assert.Error(t, err)
}
