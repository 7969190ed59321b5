package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/client"
	"github.com/yizeng/gab/gin/gorm/tender-dashboard/internal/domain"
)

func newAuth(t *testing.T) (*AuthService, *backend) {
	t.Helper()

	b, srv := newBackend(t)

	return NewFactory(srv.Client(), srv.URL+"/api", nil).Auth(), b
}

func TestAuthLogin(t *testing.T) {
	auth, b := newAuth(t)
	b.ok(http.MethodPost, "/api/auth/login", map[string]any{
		"token": "jwt-token",
		"user":  map[string]any{"id": "u1", "username": "admin", "role": "admin", "nama_lengkap": "Administrator"},
	})

	session, err := auth.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	assert.Equal(t, "jwt-token", session.Credential)
	assert.Equal(t, domain.RoleAdmin, session.Role())
	assert.Equal(t, "Administrator", session.DisplayName())

	calls := b.called(http.MethodPost, "/api/auth/login")
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].Auth)
	assert.JSONEq(t, `{"username":"admin","password":"admin123"}`, string(calls[0].Body))
}

func TestAuthLoginFailures(t *testing.T) {
	t.Run("wrong credentials", func(t *testing.T) {
		auth, b := newAuth(t)
		b.fail(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, "Invalid username or password")

		_, err := auth.Login(context.Background(), "admin", "nope")
		require.ErrorIs(t, err, client.ErrUnauthenticated)

		e, ok := client.AsError(err)
		require.True(t, ok)
		assert.Equal(t, "Invalid username or password", e.Message)
	})

	t.Run("unknown role", func(t *testing.T) {
		auth, b := newAuth(t)
		b.ok(http.MethodPost, "/api/auth/login", map[string]any{
			"token": "jwt-token",
			"user":  map[string]any{"id": "u1", "role": "guest"},
		})

		_, err := auth.Login(context.Background(), "guest", "guest123")
		require.ErrorIs(t, err, ErrUnsupportedRole)
	})

	t.Run("no token", func(t *testing.T) {
		auth, b := newAuth(t)
		b.ok(http.MethodPost, "/api/auth/login", map[string]any{"user": map[string]any{"id": "u1", "role": "admin"}})

		_, err := auth.Login(context.Background(), "admin", "admin123")
		require.ErrorIs(t, err, ErrMissingCredential)
	})
}

func TestAuthLogoutUsesGivenCredential(t *testing.T) {
	auth, b := newAuth(t)
	b.ok(http.MethodPost, "/api/auth/logout", nil)

	require.NoError(t, auth.Logout(context.Background(), "jwt-token"))

	calls := b.called(http.MethodPost, "/api/auth/logout")
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer jwt-token", calls[0].Auth)
}
