package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/vault-console/internal/models"
	"github.com/hongminglow/vault-console/internal/storage"
	"github.com/hongminglow/vault-console/internal/storage/memory"
)

func sampleUser() models.User {
	return models.User{
		ID:    7,
		Name:  "Ada",
		Email: "a@b.com",
		Roles: []models.RoleAssignment{{RoleID: models.RoleAdmin, RoleName: "admin"}},
	}
}

func assertAbsent(t *testing.T, kv storage.KV, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, err := kv.Get(context.Background(), k)
		assert.ErrorIs(t, err, storage.ErrNotFound, "key %s should be absent", k)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.New(), "", nil)

	require.NoError(t, store.Save(ctx, sampleUser(), models.RoleAdmin))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sampleUser(), got.User)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestSaveOverwritesPriorValues(t *testing.T) {
	ctx := context.Background()
	store := NewStore(memory.New(), "", nil)

	require.NoError(t, store.Save(ctx, sampleUser(), models.RoleAdmin))
	other := models.User{ID: 9, Email: "z@b.com"}
	require.NoError(t, store.Save(ctx, other, models.RoleGuest))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, other, got.User)
	assert.Equal(t, models.RoleGuest, got.Role)
}

func TestLoadEmptyStore(t *testing.T) {
	got, err := NewStore(memory.New(), "", nil).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadPurgesMalformedEntries(t *testing.T) {
	cases := map[string]map[string]string{
		"non-json user":     {UserKey: "{not json", RoleKey: "1"},
		"null user":         {UserKey: "null", RoleKey: "1"},
		"non-integer role":  {UserKey: `{"user_id":7}`, RoleKey: "admin"},
		"user without role": {UserKey: `{"user_id":7}`},
		"role without user": {RoleKey: "1"},
	}
	for name, entries := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := memory.New()
			for k, v := range entries {
				require.NoError(t, kv.Set(ctx, k, v))
			}

			got, err := NewStore(kv, "", nil).Load(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
			assertAbsent(t, kv, UserKey, RoleKey)
		})
	}
}

func TestClearRemovesBothKeys(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := NewStore(kv, "", nil)
	require.NoError(t, store.Save(ctx, sampleUser(), models.RoleAdmin))

	require.NoError(t, store.Clear(ctx))
	assertAbsent(t, kv, UserKey, RoleKey)

	// clearing twice is fine
	require.NoError(t, store.Clear(ctx))
}

func TestSaveUserLeavesRoleUntouched(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := NewStore(kv, "", nil)
	require.NoError(t, store.Save(ctx, sampleUser(), models.RoleAdmin))

	edited := sampleUser()
	edited.Name = "Ada Lovelace"
	require.NoError(t, store.SaveUser(ctx, edited))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada Lovelace", got.User.Name)
	assert.Equal(t, models.RoleAdmin, got.Role)
}

func TestOriginScopesKeys(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	a := NewStore(kv, "a.example", nil)
	b := NewStore(kv, "b.example", nil)

	require.NoError(t, a.Save(ctx, sampleUser(), models.RoleAdmin))

	raw, err := kv.Get(ctx, "a.example:"+RoleKey)
	require.NoError(t, err)
	assert.Equal(t, "1", raw)

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveKeepsUnmodelledAttributes(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	store := NewStore(kv, "", nil)

	raw := `{"user_id":7,"user_email":"a@b.com","org_id":42,"pi_roles":[{"role_id":1}],"prefs":{"theme":"dark"}}`
	var user models.User
	require.NoError(t, json.Unmarshal([]byte(raw), &user))
	require.NoError(t, store.Save(ctx, user, user.PrimaryRole()))

	stored, err := kv.Get(ctx, UserKey)
	require.NoError(t, err)
	assert.JSONEq(t, raw, stored)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, `42`, string(got.User.Extra["org_id"]))
	assert.Equal(t, "a@b.com", got.User.Email)
}
