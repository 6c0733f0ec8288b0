// Package audit keeps the append-only log of AI interactions.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/database/models"
	"github.com/hugh/lawconnect/pkg/crypto"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one AI call attempt, successful or not.
type Entry struct {
	UserID       uuid.UUID
	CaseID       *uuid.UUID
	QueryType    string
	Prompt       string
	Response     interface{}
	Model        string
	Confidence   *int
	ResponseTime time.Duration
	Status       string
	ErrorMessage string
	Metadata     map[string]interface{}
}

type Filter struct {
	CaseID    *uuid.UUID
	QueryType string
	Limit     int
}

type Recorder struct {
	db           *gorm.DB
	sealer       *crypto.Sealer
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

type Option func(*Recorder)

// WithSealer encrypts prompt and response before they are written.
func WithSealer(s *crypto.Sealer) Option {
	return func(r *Recorder) { r.sealer = s }
}

func WithLimits(defaultLimit, maxLimit int) Option {
	return func(r *Recorder) {
		if maxLimit > 0 {
			r.maxLimit = maxLimit
		}
		if defaultLimit > 0 {
			r.defaultLimit = min(defaultLimit, r.maxLimit)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

func NewRecorder(db *gorm.DB, opts ...Option) *Recorder {
	r := &Recorder{
		db:           db,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) Record(ctx context.Context, e Entry) (*models.AILog, error) {
	response, err := json.Marshal(e.Response)
	if err != nil {
		return nil, fmt.Errorf("encoding response: %w", err)
	}

	log := &models.AILog{
		UserID:       e.UserID,
		CaseID:       e.CaseID,
		QueryType:    e.QueryType,
		Prompt:       e.Prompt,
		Response:     datatypes.JSON(response),
		Model:        e.Model,
		Confidence:   e.Confidence,
		Status:       e.Status,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    r.now().UTC(),
	}
	if e.ResponseTime > 0 {
		ms := e.ResponseTime.Milliseconds()
		log.ResponseTimeMs = &ms
	}
	if len(e.Metadata) > 0 {
		log.Metadata = datatypes.JSONMap(e.Metadata)
	}

	if r.sealer != nil {
		if err := r.seal(log); err != nil {
			return nil, err
		}
	}

	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, fmt.Errorf("writing ai log: %w", err)
	}
	return log, nil
}

// ListForUser returns the user's most recent interactions, newest first.
func (r *Recorder) ListForUser(ctx context.Context, userID uuid.UUID, f Filter) ([]models.AILog, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(r.clamp(f.Limit))

	if f.CaseID != nil {
		q = q.Where("case_id = ?", *f.CaseID)
	}
	if f.QueryType != "" {
		q = q.Where("query_type = ?", f.QueryType)
	}

	var logs []models.AILog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("listing ai logs: %w", err)
	}

	for i := range logs {
		if logs[i].Sealed && r.sealer != nil {
			if err := r.open(&logs[i]); err != nil {
				return nil, err
			}
		}
	}
	return logs, nil
}

func (r *Recorder) clamp(limit int) int {
	if limit <= 0 {
		return r.defaultLimit
	}
	return min(limit, r.maxLimit)
}

// A sealed row keeps the prompt as base64 ciphertext and the response as a
// JSON string holding the base64 ciphertext of the original JSON.
func (r *Recorder) seal(log *models.AILog) error {
	prompt, err := r.sealer.SealString(log.Prompt)
	if err != nil {
		return fmt.Errorf("sealing prompt: %w", err)
	}
	sealed, err := r.sealer.SealString(string(log.Response))
	if err != nil {
		return fmt.Errorf("sealing response: %w", err)
	}
	response, err := json.Marshal(sealed)
	if err != nil {
		return err
	}

	log.Prompt = prompt
	log.Response = datatypes.JSON(response)
	log.Sealed = true
	return nil
}

func (r *Recorder) open(log *models.AILog) error {
	prompt, err := r.sealer.OpenString(log.Prompt)
	if err != nil {
		return fmt.Errorf("opening prompt of %s: %w", log.ID, err)
	}

	var sealed string
	if err := json.Unmarshal(log.Response, &sealed); err != nil {
		return fmt.Errorf("decoding sealed response of %s: %w", log.ID, err)
	}
	response, err := r.sealer.OpenString(sealed)
	if err != nil {
		return fmt.Errorf("opening response of %s: %w", log.ID, err)
	}

	log.Prompt = prompt
	log.Response = datatypes.JSON(response)
	log.Sealed = false
	return nil
}
