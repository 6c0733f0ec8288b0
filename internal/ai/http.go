package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxReplyBytes = 1 << 20

// HTTPCompleter talks to a GET endpoint taking message and chatid query
// parameters and answering with JSON.
type HTTPCompleter struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewHTTPCompleter(baseURL, model string, timeout time.Duration) *HTTPCompleter {
	return &HTTPCompleter{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPCompleter) Model() string {
	return c.model
}

func (c *HTTPCompleter) Complete(ctx context.Context, req Request) (*Reply, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing completion url: %w", err)
	}
	q := u.Query()
	q.Set("message", req.Prompt)
	q.Set("chatid", req.ConversationID)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling completion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading completion reply: %w", err)
	}

	reply, err := parseReply(body)
	if err != nil {
		return nil, err
	}
	if reply.ConversationID == "" {
		reply.ConversationID = req.ConversationID
	}
	return reply, nil
}

// parseReply takes the message or response field of a JSON object, a bare
// JSON string, or failing both the whole JSON document re-encoded.
func parseReply(body []byte) (*Reply, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedReply)
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	reply := &Reply{}
	switch v := doc.(type) {
	case string:
		reply.Text = v
	case map[string]interface{}:
		if id, ok := v["chatId"].(string); ok {
			reply.ConversationID = id
		}
		for _, key := range []string{"message", "response"} {
			if s, ok := v[key].(string); ok && s != "" {
				reply.Text = s
				break
			}
		}
		if reply.Text == "" {
			reply.Text = trimmed
		}
	case nil:
		return nil, fmt.Errorf("%w: null body", ErrMalformedReply)
	default:
		reply.Text = trimmed
	}

	if strings.TrimSpace(reply.Text) == "" {
		return nil, fmt.Errorf("%w: empty message", ErrMalformedReply)
	}
	return reply, nil
}
