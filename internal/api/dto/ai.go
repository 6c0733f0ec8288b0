package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/api/validation"
	"github.com/hugh/lawconnect/internal/database/models"
)

type ChatRequest struct {
	Message string `json:"message" validate:"notblank"`
	ChatID  string `json:"chatId" validate:"max=100"`
}

type LegalAdviceRequest struct {
	Query  string `json:"query" validate:"notblank"`
	ChatID string `json:"chatId" validate:"max=100"`
	CaseID string `json:"caseId" validate:"omitempty,uuid"`
}

// PredictCaseRequest names either a stored case or the facts of a new one.
type PredictCaseRequest struct {
	CaseID      string `json:"caseId" validate:"omitempty,uuid"`
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description"`
	CaseType    string `json:"caseType" validate:"omitempty,casetype"`
	ChatID      string `json:"chatId" validate:"max=100"`
}

func (r PredictCaseRequest) HasFacts() bool {
	return !validation.IsBlank(r.Title) && !validation.IsBlank(r.Description) && r.CaseType != ""
}

type AnalyzeDocumentRequest struct {
	DocumentSummary string `json:"documentSummary" validate:"notblank"`
	CaseID          string `json:"caseId" validate:"omitempty,uuid"`
	ChatID          string `json:"chatId" validate:"max=100"`
}

// ParseCaseID returns nil for an empty id. Callers validate the format first.
func ParseCaseID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}

type ChatResponse struct {
	Message    string    `json:"message"`
	ChatID     string    `json:"chatId"`
	Disclaimer string    `json:"disclaimer"`
	Timestamp  time.Time `json:"timestamp"`
}

type LegalAdviceResponse struct {
	Advice     string    `json:"advice"`
	ChatID     string    `json:"chatId"`
	Disclaimer string    `json:"disclaimer"`
	Timestamp  time.Time `json:"timestamp"`
}

type PredictionResponse struct {
	Probability int       `json:"probability"`
	Analysis    string    `json:"analysis"`
	ChatID      string    `json:"chatId"`
	Disclaimer  string    `json:"disclaimer"`
	Timestamp   time.Time `json:"timestamp"`
}

type AnalysisResponse struct {
	Analysis   string    `json:"analysis"`
	ChatID     string    `json:"chatId"`
	Disclaimer string    `json:"disclaimer"`
	Timestamp  time.Time `json:"timestamp"`
}

type HistoryItem struct {
	ID         string                 `json:"id"`
	CaseID     *string                `json:"caseId,omitempty"`
	QueryType  string                 `json:"queryType"`
	Prompt     string                 `json:"prompt"`
	Response   json.RawMessage        `json:"response,omitempty"`
	Confidence *int                   `json:"confidence,omitempty"`
	Status     string                 `json:"status"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type HistoryResponse struct {
	History []HistoryItem `json:"history"`
	Count   int           `json:"count"`
}

func NewHistoryResponse(logs []models.AILog) HistoryResponse {
	items := make([]HistoryItem, 0, len(logs))
	for _, l := range logs {
		item := HistoryItem{
			ID:         l.ID.String(),
			QueryType:  l.QueryType,
			Prompt:     l.Prompt,
			Confidence: l.Confidence,
			Status:     l.Status,
			Metadata:   l.Metadata,
			CreatedAt:  l.CreatedAt,
		}
		if len(l.Response) > 0 {
			item.Response = json.RawMessage(l.Response)
		}
		if l.CaseID != nil {
			id := l.CaseID.String()
			item.CaseID = &id
		}
		items = append(items, item)
	}
	return HistoryResponse{History: items, Count: len(items)}
}

type SweepResponse struct {
	Deleted int64 `json:"deleted"`
}
