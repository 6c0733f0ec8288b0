package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/hugh/lawconnect/internal/ai"
	"github.com/hugh/lawconnect/internal/api/handlers"
	"github.com/hugh/lawconnect/internal/api/validation"
	"github.com/stretchr/testify/require"
)

type envelope[T any] struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    T                       `json:"data"`
	Errors  []validation.FieldError `json:"errors"`
	Error   string                  `json:"error"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	return env
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResponder() *handlers.Responder {
	return handlers.NewResponder(discardLogger(), false)
}

// recordingQueue captures enqueued tasks instead of talking to Redis.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *recordingQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: "test", Type: task.Type()}, nil
}

// fakeCompleter answers with a canned reply, an error, or blocks until the
// context ends.
type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   bool
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, req ai.Request) (*ai.Reply, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Reply{Text: f.reply, ConversationID: req.ConversationID}, nil
}

func (f *fakeCompleter) Model() string { return "fake-model" }

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
