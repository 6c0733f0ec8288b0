package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotice() ResetNotice {
	return ResetNotice{
		UserID:    "0b0e8d8e-0000-4000-8000-000000000001",
		Email:     "alice@example.com",
		Name:      "Alice",
		ResetURL:  "http://localhost:3000/reset-password?token=abc123",
		ExpiresAt: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestWebhookNotifier(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	require.NoError(t, n.NotifyReset(context.Background(), testNotice()))

	assert.Equal(t, "password_reset", got["event"])
	assert.Equal(t, "alice@example.com", got["email"])
	assert.Equal(t, "http://localhost:3000/reset-password?token=abc123", got["reset_url"])
}

func TestWebhookNotifier_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).NotifyReset(context.Background(), testNotice())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestLogNotifier_OmitsToken(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	require.NoError(t, NewLogNotifier(logger).NotifyReset(context.Background(), testNotice()))
	assert.Contains(t, buf.String(), "alice@example.com")
	assert.NotContains(t, buf.String(), "abc123")
}

func TestNew(t *testing.T) {
	logger := slog.Default()
	assert.IsType(t, &LogNotifier{}, New("", logger))
	assert.IsType(t, &WebhookNotifier{}, New("https://hooks.example.com/reset", logger))
}
