package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiCompleter sends each prompt as a single-turn GenerateContent call.
// Gemini keeps no server-side chat here, so the conversation id is only
// echoed back for correlation in the audit log.
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

func (g *GeminiCompleter) Model() string {
	return g.model
}

func (g *GeminiCompleter) Complete(ctx context.Context, req Request) (*Reply, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text candidates", ErrMalformedReply)
	}

	return &Reply{Text: text, ConversationID: req.ConversationID}, nil
}
