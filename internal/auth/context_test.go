package auth_test

import (
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pro4tech/assistant/internal/apierr"
	"github.com/pro4tech/assistant/internal/auth"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	t.Run("plaintext", func(t *testing.T) {
		store := auth.NewTokenStore(filepath.Join(t.TempDir(), "token.json"), "")
		require.NoError(t, store.Save("my-token"))

		token, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "my-token", token)
	})

	t.Run("encrypted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token.json")
		store := auth.NewTokenStore(path, "correct horse battery staple")
		require.NoError(t, store.Save("my-token"))

		token, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, "my-token", token)

		// Wrong passphrase must not yield the token.
		_, err = auth.NewTokenStore(path, "wrong").Load()
		assert.Error(t, err)
	})

	t.Run("missing file is unauthenticated", func(t *testing.T) {
		store := auth.NewTokenStore(filepath.Join(t.TempDir(), "none.json"), "")
		_, err := store.Load()
		assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		store := auth.NewTokenStore(filepath.Join(t.TempDir(), "token.json"), "")
		require.NoError(t, store.Save("my-token"))
		require.NoError(t, store.Clear())
		require.NoError(t, store.Clear())

		_, err := store.Load()
		assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
	})
}

func TestContext_FromStore(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   42,
		"role": "admin",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := auth.NewTokenStore(filepath.Join(t.TempDir(), "token.json"), "")
	require.NoError(t, store.Save(token))

	ctx := auth.NewContext(store)
	require.NoError(t, ctx.Err())

	got, err := ctx.Token()
	require.NoError(t, err)
	assert.Equal(t, token, got)

	userID, err := ctx.UserID()
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	assert.Equal(t, "admin", ctx.Role())
	assert.True(t, ctx.IsAdmin())
}

func TestContext_Unauthenticated(t *testing.T) {
	store := auth.NewTokenStore(filepath.Join(t.TempDir(), "none.json"), "")
	ctx := auth.NewContext(store)

	assert.ErrorIs(t, ctx.Err(), apierr.ErrUnauthenticated)

	_, err := ctx.Token()
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)

	_, err = ctx.UserID()
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)

	assert.False(t, ctx.IsAdmin())
}

func TestContext_TokenWithoutIdentity(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "x@y.z",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := auth.NewTokenStore(filepath.Join(t.TempDir(), "token.json"), "")
	require.NoError(t, store.Save(token))

	ctx := auth.NewContext(store)
	assert.ErrorIs(t, ctx.Err(), apierr.ErrUnauthenticated)
}
