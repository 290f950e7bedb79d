package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rcliao/movie-dashboard/internal/model"
	"github.com/rcliao/movie-dashboard/internal/store"
)

func newManager(t *testing.T, kv store.KV) *Manager {
	t.Helper()
	return Load(context.Background(), kv, WithCost(bcrypt.MinCost))
}

func TestSignupNormalizesAndSignsIn(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	m := newManager(t, kv)

	u, err := m.Signup(ctx, "  Ada  ", " ADA@Example.COM ", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.AuthUser{Name: "Ada", Email: "ada@example.com"}, u)
	assert.True(t, m.IsAuthenticated())

	reg, ok := store.DecodeJSON[model.RegisteredUser](ctx, kv, store.KeyRegisteredUser)
	require.True(t, ok)
	assert.Equal(t, "ada@example.com", reg.Email)
	assert.NotEqual(t, "secret", reg.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reg.PasswordHash), []byte("secret")))

	sess, ok := store.DecodeJSON[model.AuthUser](ctx, kv, store.KeySessionUser)
	require.True(t, ok)
	assert.Equal(t, u, sess)
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name, userName, email, password string
		want                            error
	}{
		{"blank name", "   ", "a@b.co", "pw", ErrNameRequired},
		{"blank email", "Ada", "  ", "pw", ErrEmailRequired},
		{"no domain dot", "Ada", "a@b", "pw", ErrEmailInvalid},
		{"inner space", "Ada", "a b@c.de", "pw", ErrEmailInvalid},
		{"empty password", "Ada", "a@b.co", "", ErrPasswordRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			m := newManager(t, kv)
			_, err := m.Signup(context.Background(), tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, m.IsAuthenticated())

			_, err = kv.Get(context.Background(), store.KeyRegisteredUser)
			assert.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	m := newManager(t, kv)

	_, err := m.Login(ctx, "ada@example.com", "secret")
	assert.ErrorIs(t, err, ErrNoAccount)

	_, err = m.Signup(ctx, "Ada", "ada@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))
	assert.False(t, m.IsAuthenticated())

	_, err = m.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = m.Login(ctx, "bob@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = m.Login(ctx, "bad", "secret")
	assert.ErrorIs(t, err, ErrEmailInvalid)
	_, err = m.Login(ctx, "ada@example.com", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
	assert.False(t, m.IsAuthenticated())

	u, err := m.Login(ctx, " ADA@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.AuthUser{Name: "Ada", Email: "ada@example.com"}, u)
	assert.True(t, m.IsAuthenticated())
}

func TestLogoutKeepsAccount(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	m := newManager(t, kv)
	_, err := m.Signup(ctx, "Ada", "ada@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx))
	_, ok := m.CurrentUser()
	assert.False(t, ok)

	_, err = kv.Get(ctx, store.KeySessionUser)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = kv.Get(ctx, store.KeyRegisteredUser)
	assert.NoError(t, err)

	// Logging out twice is harmless.
	assert.NoError(t, m.Logout(ctx))
}

func TestLoadRestoresSession(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	_, err := newManager(t, kv).Signup(ctx, "Ada", "ada@example.com", "secret")
	require.NoError(t, err)

	u, ok := newManager(t, kv).CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "Ada", u.Name)
}

func TestLoadToleratesCorruptSession(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", "null", `"text"`, `{"name":"x"}`} {
		kv := store.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, store.KeySessionUser, []byte(raw)))
		assert.False(t, newManager(t, kv).IsAuthenticated(), raw)
	}
}

func TestLoginWithCorruptAccount(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, store.KeyRegisteredUser, []byte("[1,2")))

	_, err := newManager(t, kv).Login(ctx, "ada@example.com", "secret")
	assert.ErrorIs(t, err, ErrNoAccount)
}
