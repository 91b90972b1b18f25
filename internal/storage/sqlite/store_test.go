package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/vault-console/internal/storage"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "user", `{"user_id":7}`))
	require.NoError(t, store.Set(ctx, "user", `{"user_id":8}`))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, err := reopened.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"user_id":8}`, v)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(ctx, "user", "u"))
	require.NoError(t, store.Set(ctx, "userRole", "2"))
	require.NoError(t, store.Delete(ctx, "user", "userRole", "absent"))

	for _, k := range []string{"user", "userRole"} {
		_, err := store.Get(ctx, k)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
}
