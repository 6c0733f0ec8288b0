package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/hugh/lawconnect/pkg/queue"
)

// Task type names
const (
	TypeResetNotify = "auth:reset_notify"
	TypeResetSweep  = "auth:reset_sweep"
)

// ResetNotifyPayload is enqueued by forgot-password for out-of-band delivery.
type ResetNotifyPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ResetURL  string    `json:"reset_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewResetNotifyTask(payload ResetNotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// A notice is useless once the link has expired.
	return asynq.NewTask(TypeResetNotify, data,
		asynq.Queue(queue.QueueCritical),
		asynq.MaxRetry(5),
		asynq.Deadline(payload.ExpiresAt),
	), nil
}

// NewResetSweepTask carries no payload; the sweep deletes whatever is
// expired at run time.
func NewResetSweepTask() *asynq.Task {
	return asynq.NewTask(TypeResetSweep, nil,
		asynq.Queue(queue.QueueLow),
		asynq.MaxRetry(1),
		asynq.Unique(30*time.Minute),
	)
}
