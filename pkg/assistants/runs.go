package assistants

import (
	"context"
	"net/url"
	"time"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/chat"
)

// Run statuses. A run is terminal once no further transitions can occur.
const (
	RunStatusQueued         = "queued"
	RunStatusInProgress     = "in_progress"
	RunStatusRequiresAction = "requires_action"
	RunStatusCancelling     = "cancelling"
	RunStatusCancelled      = "cancelled"
	RunStatusFailed         = "failed"
	RunStatusCompleted      = "completed"
	RunStatusIncomplete     = "incomplete"
	RunStatusExpired        = "expired"
)

// Run is an assistant execution over a thread.
type Run struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	CreatedAt      int64             `json:"created_at"`
	AssistantID    string            `json:"assistant_id"`
	ThreadID       string            `json:"thread_id"`
	Status         string            `json:"status"`
	RequiredAction *RequiredAction   `json:"required_action,omitempty"`
	LastError      *LastError        `json:"last_error,omitempty"`
	ExpiresAt      *int64            `json:"expires_at,omitempty"`
	StartedAt      *int64            `json:"started_at,omitempty"`
	CompletedAt    *int64            `json:"completed_at,omitempty"`
	Model          string            `json:"model"`
	Instructions   string            `json:"instructions,omitempty"`
	Tools          []Tool            `json:"tools,omitempty"`
	Usage          *api.Usage        `json:"usage,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Terminal reports whether the run has reached a final status. A run in
// requires_action is not terminal but will not progress without
// SubmitToolOutputs.
func (r *Run) Terminal() bool {
	switch r.Status {
	case RunStatusCancelled, RunStatusFailed, RunStatusCompleted, RunStatusIncomplete, RunStatusExpired:
		return true
	}
	return false
}

// RequiredAction describes what the caller must do to continue a run.
type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputs lists the tool calls awaiting results.
type SubmitToolOutputs struct {
	ToolCalls []chat.ToolCall `json:"tool_calls"`
}

// LastError records why a run failed.
type LastError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunRequest starts a run on an existing thread.
type RunRequest struct {
	AssistantID            string            `json:"assistant_id"`
	Model                  string            `json:"model,omitempty"`
	Instructions           string            `json:"instructions,omitempty"`
	AdditionalInstructions string            `json:"additional_instructions,omitempty"`
	Tools                  []Tool            `json:"tools,omitempty"`
	Metadata               map[string]string `json:"metadata,omitempty"`
}

// ThreadRunRequest creates a thread and starts a run on it in one call.
type ThreadRunRequest struct {
	AssistantID  string            `json:"assistant_id"`
	Thread       *ThreadRequest    `json:"thread,omitempty"`
	Model        string            `json:"model,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
	Tools        []Tool            `json:"tools,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ToolOutput carries one tool call result back to a run.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// CreateRun starts a run on an existing thread.
func (s *Service) CreateRun(ctx context.Context, threadID string, req *RunRequest) (*Run, error) {
	var out Run
	path := "/threads/" + url.PathEscape(threadID) + "/runs"
	if err := s.client.Post(ctx, path, req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateThreadAndRun creates a thread and starts a run in one request.
func (s *Service) CreateThreadAndRun(ctx context.Context, req *ThreadRunRequest) (*Run, error) {
	var out Run
	if err := s.client.Post(ctx, "/threads/runs", req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveRun fetches a run's current state.
func (s *Service) RetrieveRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var out Run
	path := "/threads/" + url.PathEscape(threadID) + "/runs/" + url.PathEscape(runID)
	if err := s.client.Get(ctx, path, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// PollRun refetches a run until it reaches a terminal status or requires
// tool outputs. The interval bounds request frequency; ctx cancellation
// stops the poll.
func (s *Service) PollRun(ctx context.Context, run *Run, interval time.Duration) (*Run, error) {
	if interval <= 0 {
		interval = time.Second
	}
	for !run.Terminal() && run.Status != RunStatusRequiresAction {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		next, err := s.RetrieveRun(ctx, run.ThreadID, run.ID)
		if err != nil {
			return nil, err
		}
		run = next
	}
	return run, nil
}

// SubmitToolOutputs delivers tool results to a run waiting in
// requires_action.
func (s *Service) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) (*Run, error) {
	var out Run
	path := "/threads/" + url.PathEscape(threadID) + "/runs/" + url.PathEscape(runID) + "/submit_tool_outputs"
	body := struct {
		ToolOutputs []ToolOutput `json:"tool_outputs"`
	}{ToolOutputs: outputs}
	if err := s.client.Post(ctx, path, &body, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}
