package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/hugh/lawconnect/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	userID := uuid.New()

	token, err := jwtService.GenerateToken(userID, "lawyer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "lawyer", claims.Role)
	assert.Equal(t, "lawconnect", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotNil(t, claims.IssuedAt)
}

func TestJWTService_Expiry(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	jwtService := auth.NewJWTService("test-secret", 7*24*time.Hour, auth.WithClock(clock.Now))

	token, err := jwtService.GenerateToken(uuid.New(), "client")
	require.NoError(t, err)

	t.Run("valid after six days", func(t *testing.T) {
		clock.T = time.Date(2026, 5, 7, 8, 0, 0, 0, time.UTC)
		_, err := jwtService.ValidateToken(token)
		assert.NoError(t, err)
	})

	t.Run("expired after eight days", func(t *testing.T) {
		clock.T = time.Date(2026, 5, 9, 8, 0, 0, 0, time.UTC)
		_, err := jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})
}

func TestJWTService_ValidateToken_Rejects(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	userID := uuid.New()

	t.Run("tampered token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, "client")
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token + "tampered")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("different secret", func(t *testing.T) {
		other := auth.NewJWTService("secret-2", 24*time.Hour)
		token, err := other.GenerateToken(userID, "client")
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := jwtService.ValidateToken("not-a-valid-jwt")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := jwtService.ValidateToken("")
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("refresh token used as access token", func(t *testing.T) {
		refresh, err := jwtService.GenerateRefreshToken(userID)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(refresh)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})
}

func TestJWTService_RefreshToken(t *testing.T) {
	clock := testutil.NewClock(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	jwtService := auth.NewJWTService("test-secret", time.Hour, auth.WithClock(clock.Now))
	userID := uuid.New()

	refresh, err := jwtService.GenerateRefreshToken(userID)
	require.NoError(t, err)

	clock.Advance(29 * 24 * time.Hour)
	claims, err := jwtService.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	clock.Advance(2 * 24 * time.Hour)
	_, err = jwtService.ValidateRefreshToken(refresh)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)

	access, err := jwtService.GenerateToken(userID, "client")
	require.NoError(t, err)
	_, err = jwtService.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_DifferentRoles(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)
	userID := uuid.New()

	for _, role := range []string{"client", "lawyer", "admin"} {
		t.Run("handles "+role+" role", func(t *testing.T) {
			token, err := jwtService.GenerateToken(userID, role)
			require.NoError(t, err)

			claims, err := jwtService.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, role, claims.Role)
		})
	}
}
