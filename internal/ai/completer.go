// Package ai forwards prompts to an external completion service and shapes
// the replies for the legal assistant endpoints.
package ai

import (
	"context"
	"errors"
	"fmt"
)

var ErrMalformedReply = errors.New("malformed completion reply")

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("completion service returned status %d", e.Code)
}

type Request struct {
	Prompt         string
	ConversationID string
}

type Reply struct {
	Text string
	// ConversationID is set when the upstream assigned or echoed one.
	ConversationID string
}

// Completer is a single prompt/response round trip to a model.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
	Model() string
}
