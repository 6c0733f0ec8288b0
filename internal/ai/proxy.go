package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"time"

	"github.com/hugh/lawconnect/internal/database/models"
)

const DefaultTimeout = 30 * time.Second

// Result is the outcome of one proxied call. Failures are folded into it so
// callers always have something to return and to audit.
type Result struct {
	Success        bool
	Message        string
	ConversationID string
	Model          string
	Timestamp      time.Time
	Duration       time.Duration

	// Error carries the upstream failure for logs and the audit record only.
	Error    string
	TimedOut bool
}

// Status is the audit status for the result.
func (r *Result) Status() string {
	switch {
	case r.Success:
		return models.AIStatusSuccess
	case r.TimedOut:
		return models.AIStatusTimeout
	default:
		return models.AIStatusError
	}
}

type Proxy struct {
	completer Completer
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewProxy(completer Completer, timeout time.Duration, logger *slog.Logger) *Proxy {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Proxy{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
	}
}

// Send forwards prompt and never fails: upstream errors come back as an
// unsuccessful Result with FallbackMessage.
func (p *Proxy) Send(ctx context.Context, prompt, conversationID string) *Result {
	start := p.now()
	if conversationID == "" {
		conversationID = NewConversationID(start)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reply, err := p.completer.Complete(ctx, Request{Prompt: prompt, ConversationID: conversationID})
	end := p.now()

	res := &Result{
		ConversationID: conversationID,
		Model:          p.completer.Model(),
		Timestamp:      end.UTC(),
		Duration:       end.Sub(start),
	}

	if err != nil {
		res.Message = FallbackMessage
		res.Error = err.Error()
		res.TimedOut = isTimeout(err)
		p.logger.Warn("completion failed",
			"conversation_id", conversationID,
			"model", res.Model,
			"timed_out", res.TimedOut,
			"error", err,
		)
		return res
	}

	res.Success = true
	res.Message = reply.Text
	if reply.ConversationID != "" {
		res.ConversationID = reply.ConversationID
	}
	return res
}

func (p *Proxy) LegalAdvice(ctx context.Context, query, conversationID string) *Result {
	return p.Send(ctx, legalAdvicePrompt(query), conversationID)
}

// CaseProbability asks for an outcome estimate. The probability is only
// meaningful when the result succeeded.
func (p *Proxy) CaseProbability(ctx context.Context, facts CaseFacts, conversationID string) (*Result, int) {
	res := p.Send(ctx, caseProbabilityPrompt(facts), conversationID)
	if !res.Success {
		return res, DefaultProbability
	}
	return res, ExtractProbability(res.Message)
}

func (p *Proxy) DocumentAnalysis(ctx context.Context, summary, conversationID string) *Result {
	return p.Send(ctx, documentAnalysisPrompt(summary), conversationID)
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewConversationID returns chat_<unix-ms>_<9 random base36 chars>.
func NewConversationID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return fmt.Sprintf("chat_%d_%s", now.UnixMilli(), suffix)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
