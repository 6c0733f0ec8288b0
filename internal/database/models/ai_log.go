package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QueryChatbot          = "chatbot"
	QueryCasePrediction   = "case_prediction"
	QueryDocumentAnalysis = "document_analysis"
	QueryLegalResearch    = "legal_research"
)

const (
	AIStatusSuccess = "success"
	AIStatusError   = "error"
	AIStatusTimeout = "timeout"
)

var ErrAuditImmutable = errors.New("ai interaction log is append-only")

// AILog records one AI call attempt. Rows are written once and never changed.
type AILog struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null;index:idx_ai_logs_user_created,priority:1" json:"user_id"`
	CaseID         *uuid.UUID        `gorm:"type:uuid;index" json:"case_id,omitempty"`
	QueryType      string            `gorm:"size:30;not null;index" json:"query_type"`
	Prompt         string            `gorm:"type:text;not null" json:"prompt"`
	Response       datatypes.JSON    `json:"response"`
	Model          string            `gorm:"size:100" json:"model"`
	Confidence     *int              `json:"confidence,omitempty"`
	ResponseTimeMs *int64            `json:"response_time_ms,omitempty"`
	Status         string            `gorm:"size:10;not null" json:"status"`
	ErrorMessage   string            `gorm:"type:text" json:"error_message,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	Sealed         bool              `gorm:"not null" json:"-"`
	CreatedAt      time.Time         `gorm:"index:idx_ai_logs_user_created,priority:2" json:"created_at"`
}

func (AILog) TableName() string {
	return "ai_interaction_logs"
}

func (l *AILog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *AILog) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditImmutable
}

func (l *AILog) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditImmutable
}
