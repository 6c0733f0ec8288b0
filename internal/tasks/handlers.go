package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/hugh/lawconnect/internal/metrics"
	"github.com/hugh/lawconnect/internal/notify"
)

// Sweeper deletes expired reset tokens.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

type Handler struct {
	sweeper  Sweeper
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewHandler(sweeper Sweeper, notifier notify.Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		sweeper:  sweeper,
		notifier: notifier,
		logger:   logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeResetNotify, h.HandleResetNotify)
	mux.HandleFunc(TypeResetSweep, h.HandleResetSweep)
}

func (h *Handler) HandleResetNotify(ctx context.Context, t *asynq.Task) error {
	var payload ResetNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w: %w", err, asynq.SkipRetry)
	}

	err := h.notifier.NotifyReset(ctx, notify.ResetNotice{
		UserID:    payload.UserID.String(),
		Email:     payload.Email,
		Name:      payload.Name,
		ResetURL:  payload.ResetURL,
		ExpiresAt: payload.ExpiresAt,
	})
	if err != nil {
		h.logger.Error("reset notice delivery failed", "user_id", payload.UserID, "error", err)
		return err
	}

	h.logger.Info("reset notice delivered", "user_id", payload.UserID)
	return nil
}

func (h *Handler) HandleResetSweep(ctx context.Context, _ *asynq.Task) error {
	n, err := h.sweeper.SweepExpired(ctx)
	if err != nil {
		return err
	}

	metrics.ResetTokensSweptTotal.Add(float64(n))
	h.logger.Info("swept expired reset tokens", "deleted", n)
	return nil
}
