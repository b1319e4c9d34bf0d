package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatewise/geofence/internal/config"
)

func newTestAuthService(t *testing.T) *AuthService {
	db := setupTestDB(t)
	return NewAuthService(db, config.Config{JWTSecret: "test-secret"})
}

func TestAuthService_Register(t *testing.T) {
	service := newTestAuthService(t)

	t.Run("first user becomes admin", func(t *testing.T) {
		user, err := service.Register("admin@example.com", "password123", "Admin")
		require.NoError(t, err)
		assert.Equal(t, "admin", user.Role)
		assert.NotEmpty(t, user.UUID)
	})

	t.Run("subsequent users are regular users", func(t *testing.T) {
		user, err := service.Register("user@example.com", "password123", "User")
		require.NoError(t, err)
		assert.Equal(t, "user", user.Role)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := service.Register("admin@example.com", "password123", "Dup")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestAuthService_LoginAndValidate(t *testing.T) {
	service := newTestAuthService(t)
	user, err := service.Register("admin@example.com", "password123", "Admin")
	require.NoError(t, err)

	t.Run("valid credentials return a verifiable token", func(t *testing.T) {
		token, err := service.Login("admin@example.com", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := service.Login("admin@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails", func(t *testing.T) {
		_, err := service.Login("ghost@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
