package middleware

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/hugh/lawconnect/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid or missing token", resp.Message)
}

func TestAuth_ValidToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	userID := uuid.New()
	token, err := jwtService.GenerateToken(userID, "lawyer")
	require.NoError(t, err)

	handler := Auth(jwtService, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userID, GetUserID(r.Context()))
		assert.Equal(t, "lawyer", GetUserRole(r.Context()))
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_NoToken(t *testing.T) {
	handler := Auth(auth.NewJWTService("test-secret", time.Hour), discardLogger())(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec)
}

func TestAuth_IgnoresCookie(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	token, err := jwtService.GenerateToken(uuid.New(), "client")
	require.NoError(t, err)

	handler := Auth(jwtService, discardLogger())(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec)
}

func TestAuth_MalformedHeader(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	token, err := jwtService.GenerateToken(uuid.New(), "client")
	require.NoError(t, err)

	handler := Auth(jwtService, discardLogger())(okHandler())

	for _, header := range []string{token, "Basic " + token, "Bearer ", "bearer " + token} {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assertUnauthorized(t, rec)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(auth.NewJWTService("test-secret", time.Hour), discardLogger())(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec)
}

func TestAuth_ExpiredToken(t *testing.T) {
	issued := time.Now().Add(-8 * 24 * time.Hour)
	issuer := auth.NewJWTService("test-secret", 7*24*time.Hour, auth.WithClock(func() time.Time { return issued }))

	token, err := issuer.GenerateToken(uuid.New(), "client")
	require.NoError(t, err)

	handler := Auth(auth.NewJWTService("test-secret", 7*24*time.Hour), discardLogger())(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec)
}

func TestAuth_TokenFromDifferentSecret(t *testing.T) {
	other := auth.NewJWTService("other-secret", time.Hour)
	token, err := other.GenerateToken(uuid.New(), "admin")
	require.NoError(t, err)

	handler := Auth(auth.NewJWTService("test-secret", time.Hour), discardLogger())(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec)
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	token, err := jwtService.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	handler := Auth(jwtService, discardLogger())(okHandler())

	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assertUnauthorized(t, rec)
}

func TestGetUserID_NotInContext(t *testing.T) {
	assert.Equal(t, uuid.Nil, GetUserID(context.Background()))
	assert.Equal(t, "", GetUserRole(context.Background()))
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		allowed  []string
		expected int
	}{
		{"has_role", "admin", []string{"admin"}, http.StatusOK},
		{"one_of_many", "lawyer", []string{"admin", "lawyer"}, http.StatusOK},
		{"missing_role", "client", []string{"admin"}, http.StatusForbidden},
		{"no_identity", "", []string{"admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireRole(tt.allowed...)(okHandler())

			req := httptest.NewRequest("POST", "/api/admin/maintenance/reset-sweep", nil)
			if tt.role != "" {
				req = req.WithContext(WithUser(req.Context(), uuid.New(), tt.role))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}
