package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-32-characters!!"

func signToken(t *testing.T, secret string, userID uuid.UUID, isAdmin bool, expiresAt time.Time) string {
	t.Helper()

	claims := jwtCustomClaims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		_, err := NewJWTService("too-short")
		assert.Error(t, err)
	})

	t.Run("accepts valid secret", func(t *testing.T) {
		svc, err := NewJWTService(testSecret)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testSecret)
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("valid admin token", func(t *testing.T) {
		token := signToken(t, testSecret, userID, true, time.Now().Add(time.Hour))

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("valid non-admin token", func(t *testing.T) {
		token := signToken(t, testSecret, userID, false, time.Now().Add(time.Hour))

		claims, err := svc.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.False(t, claims.IsAdmin)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, testSecret, userID, true, time.Now().Add(-time.Hour))

		_, err := svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token := signToken(t, "another-secret-that-is-32-chars!!!!", userID, true, time.Now().Add(time.Hour))

		_, err := svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := svc.ValidateToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
