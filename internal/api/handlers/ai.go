package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/lawconnect/internal/ai"
	"github.com/hugh/lawconnect/internal/api/dto"
	"github.com/hugh/lawconnect/internal/api/middleware"
	"github.com/hugh/lawconnect/internal/api/validation"
	"github.com/hugh/lawconnect/internal/audit"
	"github.com/hugh/lawconnect/internal/cases"
	"github.com/hugh/lawconnect/internal/database/models"
	"github.com/hugh/lawconnect/internal/metrics"
)

// AIHandler serves the AI endpoints. Every call that reaches the upstream
// model leaves exactly one audit record, whatever the outcome.
type AIHandler struct {
	proxy    *ai.Proxy
	recorder *audit.Recorder
	cases    *cases.Service
	rs       *Responder
}

func NewAIHandler(proxy *ai.Proxy, recorder *audit.Recorder, caseService *cases.Service, rs *Responder) *AIHandler {
	return &AIHandler{
		proxy:    proxy,
		recorder: recorder,
		cases:    caseService,
		rs:       rs,
	}
}

// maxAuditErrorLen caps the upstream error text kept in the audit log.
const maxAuditErrorLen = 1000

// auditedReply is the response shape stored in the audit log.
type auditedReply struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	ChatID      string    `json:"chatId"`
	Probability *int      `json:"probability,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	prompt := validation.SanitizeString(req.Message)
	res := h.proxy.Send(r.Context(), prompt, req.ChatID)
	h.record(r.Context(), models.QueryChatbot, nil, prompt, res, nil)

	if !res.Success {
		h.rs.Fail(w, http.StatusInternalServerError, "Failed to get AI response")
		return
	}

	h.rs.OK(w, "", dto.ChatResponse{
		Message:    res.Message,
		ChatID:     res.ConversationID,
		Disclaimer: ai.Disclaimer,
		Timestamp:  res.Timestamp,
	})
}

func (h *AIHandler) LegalAdvice(w http.ResponseWriter, r *http.Request) {
	var req dto.LegalAdviceRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	caseID := dto.ParseCaseID(req.CaseID)
	if caseID != nil {
		if _, err := h.authorizeCase(r, *caseID); err != nil {
			h.rs.Error(w, r, err)
			return
		}
	}

	query := validation.SanitizeString(req.Query)
	res := h.proxy.LegalAdvice(r.Context(), query, req.ChatID)
	h.record(r.Context(), models.QueryLegalResearch, caseID, query, res, nil)

	if !res.Success {
		h.rs.Fail(w, http.StatusInternalServerError, "Failed to get legal advice")
		return
	}

	h.rs.OK(w, "", dto.LegalAdviceResponse{
		Advice:     res.Message,
		ChatID:     res.ConversationID,
		Disclaimer: ai.Disclaimer,
		Timestamp:  res.Timestamp,
	})
}

// PredictCase estimates the success probability of a stored case, or of the
// facts given in the request. A stored case keeps the new estimate.
func (h *AIHandler) PredictCase(w http.ResponseWriter, r *http.Request) {
	var req dto.PredictCaseRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	var facts ai.CaseFacts
	caseID := dto.ParseCaseID(req.CaseID)
	if caseID != nil {
		c, err := h.authorizeCase(r, *caseID)
		if err != nil {
			h.rs.Error(w, r, err)
			return
		}
		facts = ai.CaseFacts{Type: c.CaseType, Title: c.Title, Description: c.Description}
	} else {
		if !req.HasFacts() {
			h.rs.Fail(w, http.StatusBadRequest, "Case title, description, and type required")
			return
		}
		facts = ai.CaseFacts{
			Type:        req.CaseType,
			Title:       validation.SanitizeString(req.Title),
			Description: validation.SanitizeString(req.Description),
		}
	}

	res, probability := h.proxy.CaseProbability(r.Context(), facts, req.ChatID)

	var confidence *int
	if res.Success {
		confidence = &probability
	}
	prompt, _ := json.Marshal(map[string]string{
		"title":       facts.Title,
		"description": facts.Description,
		"caseType":    facts.Type,
	})
	h.record(r.Context(), models.QueryCasePrediction, caseID, string(prompt), res, confidence)

	if !res.Success {
		h.rs.Fail(w, http.StatusInternalServerError, "Failed to analyze case")
		return
	}

	if caseID != nil {
		if err := h.cases.SetProbability(r.Context(), *caseID, probability); err != nil {
			h.rs.logger.Error("storing case probability", "case_id", *caseID, "error", err)
		}
	}

	h.rs.OK(w, "", dto.PredictionResponse{
		Probability: probability,
		Analysis:    res.Message,
		ChatID:      res.ConversationID,
		Disclaimer:  ai.Disclaimer,
		Timestamp:   res.Timestamp,
	})
}

func (h *AIHandler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req dto.AnalyzeDocumentRequest
	if !h.rs.Decode(w, r, &req) {
		return
	}

	caseID := dto.ParseCaseID(req.CaseID)
	if caseID != nil {
		if _, err := h.authorizeCase(r, *caseID); err != nil {
			h.rs.Error(w, r, err)
			return
		}
	}

	summary := validation.SanitizeString(req.DocumentSummary)
	res := h.proxy.DocumentAnalysis(r.Context(), summary, req.ChatID)
	h.record(r.Context(), models.QueryDocumentAnalysis, caseID, summary, res, nil)

	if !res.Success {
		h.rs.Fail(w, http.StatusInternalServerError, "Failed to analyze document")
		return
	}

	h.rs.OK(w, "", dto.AnalysisResponse{
		Analysis:   res.Message,
		ChatID:     res.ConversationID,
		Disclaimer: ai.Disclaimer,
		Timestamp:  res.Timestamp,
	})
}

// History lists the caller's own interactions. Query params: caseId,
// queryType, limit.
func (h *AIHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.Filter{QueryType: q.Get("queryType")}

	if s := q.Get("caseId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			h.rs.Fail(w, http.StatusBadRequest, "Invalid case id")
			return
		}
		filter.CaseID = &id
	}
	if s := q.Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil || limit < 1 {
			h.rs.Fail(w, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	logs, err := h.recorder.ListForUser(r.Context(), middleware.GetUserID(r.Context()), filter)
	if err != nil {
		h.rs.Error(w, r, err)
		return
	}

	h.rs.OK(w, "", dto.NewHistoryResponse(logs))
}

func (h *AIHandler) authorizeCase(r *http.Request, caseID uuid.UUID) (*models.Case, error) {
	ctx := r.Context()
	return h.cases.Authorize(ctx, caseID, middleware.GetUserID(ctx), middleware.GetUserRole(ctx))
}

// record writes the audit row and metrics. A failed write is logged and
// counted but never changes the response.
func (h *AIHandler) record(ctx context.Context, queryType string, caseID *uuid.UUID, prompt string, res *ai.Result, confidence *int) {
	status := res.Status()
	metrics.AIRequestsTotal.WithLabelValues(queryType, status).Inc()
	metrics.AIRequestDuration.WithLabelValues(queryType).Observe(res.Duration.Seconds())

	reply := auditedReply{
		Success:     res.Success,
		Message:     res.Message,
		ChatID:      res.ConversationID,
		Probability: confidence,
		Timestamp:   res.Timestamp,
	}

	metadata := map[string]interface{}{"chatId": res.ConversationID}
	if confidence != nil {
		metadata["probability"] = *confidence
	}

	// The row is written even if the client has gone away.
	_, err := h.recorder.Record(context.WithoutCancel(ctx), audit.Entry{
		UserID:       middleware.GetUserID(ctx),
		CaseID:       caseID,
		QueryType:    queryType,
		Prompt:       prompt,
		Response:     reply,
		Model:        res.Model,
		Confidence:   confidence,
		ResponseTime: res.Duration,
		Status:       status,
		ErrorMessage: validation.TruncateString(res.Error, maxAuditErrorLen),
		Metadata:     metadata,
	})
	if err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		h.rs.logger.Error("writing ai audit record",
			"query_type", queryType,
			"status", status,
			"error", err,
		)
	}
}
