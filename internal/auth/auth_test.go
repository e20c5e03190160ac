package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docvault/internal/config"
	"docvault/internal/model"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:        "0123456789abcdef0123456789abcdef",
		Issuer:        "docvault",
		Audience:      "docvault-client",
		ExpirationMin: 60,
	}
}

func TestTokenManager_IssueVerify(t *testing.T) {
	tm, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)

	id := Identity{Email: "user@example.com", Name: "User", Role: model.RoleContributor}

	token, err := tm.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id.Email, got.Email)
	assert.Equal(t, id.Name, got.Name)
	assert.Equal(t, id.Role, got.Role)
}

func TestTokenManager_Verify(t *testing.T) {
	tm, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := tm.Verify("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other, err := NewTokenManager(config.JWTConfig{
			Secret:        "ffffffffffffffffffffffffffffffff",
			Issuer:        "docvault",
			Audience:      "docvault-client",
			ExpirationMin: 60,
		})
		require.NoError(t, err)

		token, err := other.Issue(Identity{Email: "user@example.com", Role: model.RoleViewer})
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.Issuer = "someone-else"
		other, err := NewTokenManager(cfg)
		require.NoError(t, err)

		token, err := other.Issue(Identity{Email: "user@example.com", Role: model.RoleViewer})
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		cfg := testJWTConfig()
		cfg.ExpirationMin = -1
		other, err := NewTokenManager(cfg)
		require.NoError(t, err)

		token, err := other.Issue(Identity{Email: "user@example.com", Role: model.RoleViewer})
		require.NoError(t, err)

		_, err = tm.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewTokenManager_WeakSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = "short"
	_, err := NewTokenManager(cfg)
	assert.Error(t, err)
}

func TestStaticStore(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	store, err := NewStaticStore(config.AuthConfig{
		Users: "Alice@example.com:Alice:Admin:" + string(hash),
	})
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		id, err := store.Lookup(ctx, "alice@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, "Alice", id.Name)
		assert.Equal(t, model.RoleAdmin, id.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.Lookup(ctx, "alice@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := store.Lookup(ctx, "bob@example.com", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestNewStaticStore_Malformed(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		_, err := NewStaticStore(config.AuthConfig{Users: "alice@example.com:Alice:Admin"})
		assert.Error(t, err)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := NewStaticStore(config.AuthConfig{Users: "a@example.com:A:Wizard:hash"})
		assert.Error(t, err)
	})

	t.Run("empty records are skipped", func(t *testing.T) {
		store, err := NewStaticStore(config.AuthConfig{Users: " ; ;"})
		require.NoError(t, err)
		_, err = store.Lookup(context.Background(), "a@example.com", "x")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
