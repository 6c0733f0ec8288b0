// Package notify delivers password reset notices to users.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ResetNotice carries everything a mailer needs to send the reset link.
type ResetNotice struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Notifier interface {
	NotifyReset(ctx context.Context, n ResetNotice) error
}

// WebhookNotifier POSTs the notice as JSON to an external mail relay.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *WebhookNotifier) NotifyReset(ctx context.Context, n ResetNotice) error {
	body, err := json.Marshal(struct {
		Event string `json:"event"`
		ResetNotice
	}{Event: "password_reset", ResetNotice: n})
	if err != nil {
		return fmt.Errorf("encoding notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting notice: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notice webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// LogNotifier is used when no webhook is configured. The reset URL is not
// logged since it grants account access.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) NotifyReset(_ context.Context, n ResetNotice) error {
	l.logger.Info("password reset requested; no delivery channel configured",
		"user_id", n.UserID,
		"email", n.Email,
		"expires_at", n.ExpiresAt,
	)
	return nil
}

// New picks the webhook when url is set, otherwise the log notifier.
func New(url string, logger *slog.Logger) Notifier {
	if url == "" {
		return NewLogNotifier(logger)
	}
	return NewWebhookNotifier(url, 0)
}
