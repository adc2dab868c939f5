package chat

import (
	"context"

	"github.com/fragen-dev/fragen/pkg/client"
	"github.com/fragen-dev/fragen/pkg/debug"
	"github.com/fragen-dev/fragen/pkg/observability"
)

const completionsPath = "/chat/completions"

// Service exposes the Chat Completions operations.
type Service struct {
	client *client.Client
}

// New creates a chat service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// Create performs a buffered chat completion.
func (s *Service) Create(ctx context.Context, req *Request) (*ChatCompletion, error) {
	// Ensure we are not in streaming mode for Create.
	reqCopy := *req
	reqCopy.Stream = false
	reqCopy.StreamOptions = nil

	var out ChatCompletion
	if err := s.client.Post(ctx, completionsPath, &reqCopy, &out); err != nil {
		return nil, err
	}

	if out.Usage != nil {
		observability.RecordTokens(out.Model, out.Usage.PromptTokens, out.Usage.CompletionTokens)
	}
	if debug.Enabled("chat") {
		debug.Log("chat", "completion created", "id", out.ID, "model", out.Model, "choices", len(out.Choices))
	}
	return &out, nil
}

// CreateStream performs a streaming chat completion. The returned stream
// delivers deltas until the backend finishes, the transport fails, or ctx
// is cancelled. The final usage-only chunk is requested so accumulated
// completions carry token counts.
func (s *Service) CreateStream(ctx context.Context, req *Request) (*ChatCompletionStream, error) {
	// Force streaming mode.
	reqCopy := *req
	reqCopy.Stream = true
	reqCopy.StreamOptions = &StreamOptions{IncludeUsage: true}

	reader, err := s.client.PostStream(ctx, completionsPath, &reqCopy)
	if err != nil {
		return nil, err
	}

	if debug.Enabled("chat") {
		debug.Log("chat", "stream opened", "model", reqCopy.Model)
	}
	return newStream(ctx, reader), nil
}
