package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-console/internal/domain"
	"sales-console/internal/repository"
	"sales-console/internal/repository/sqlite"
)

func newRepo(t *testing.T, path string) repository.SessionRepository {
	t.Helper()
	db, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewSessionRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func TestStoreLoginPersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	store := NewStore(newRepo(t, path), nil)
	require.NoError(t, store.Hydrate(ctx))
	assert.False(t, store.IsAuthenticated())

	user := domain.User{ID: 1, Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.Login(ctx, "token-abc", user))
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, "token-abc", store.Token())

	// A fresh store against the same database restores the token but not
	// the profile.
	restarted := NewStore(newRepo(t, path), nil)
	require.NoError(t, restarted.Hydrate(ctx))
	assert.True(t, restarted.IsAuthenticated())
	assert.Equal(t, "token-abc", restarted.Token())
	assert.Nil(t, restarted.User())
}

func TestStoreLogoutClearsEverything(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "console.db")

	store := NewStore(newRepo(t, path), nil)
	require.NoError(t, store.Login(ctx, "token-abc", domain.User{ID: 1, Name: "Ana"}))
	require.NoError(t, store.Logout(ctx))

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())

	restarted := NewStore(newRepo(t, path), nil)
	require.NoError(t, restarted.Hydrate(ctx))
	assert.False(t, restarted.IsAuthenticated())
}

func TestStoreUserCopies(t *testing.T) {
	store := NewStore(newRepo(t, filepath.Join(t.TempDir(), "console.db")), nil)
	store.SetUser(domain.User{ID: 2, Name: "Luis"})

	u := store.User()
	require.NotNil(t, u)
	u.Name = "mutated"

	again := store.User()
	require.NotNil(t, again)
	assert.Equal(t, "Luis", again.Name, "callers get a copy, not the cached value")
}
