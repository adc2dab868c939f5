package assistants

import (
	"context"
	"net/url"
)

// Thread is a conversation container for assistant runs.
type Thread struct {
	ID        string            `json:"id"`
	Object    string            `json:"object"`
	CreatedAt int64             `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// ThreadRequest creates a thread, optionally seeded with messages.
type ThreadRequest struct {
	Messages []MessageRequest  `json:"messages,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CreateThread creates a thread. A nil request creates an empty thread.
func (s *Service) CreateThread(ctx context.Context, req *ThreadRequest) (*Thread, error) {
	if req == nil {
		req = &ThreadRequest{}
	}
	var out Thread
	if err := s.client.Post(ctx, "/threads", req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveThread fetches a thread by ID.
func (s *Service) RetrieveThread(ctx context.Context, id string) (*Thread, error) {
	var out Thread
	if err := s.client.Get(ctx, "/threads/"+url.PathEscape(id), &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteThread removes a thread and its messages.
func (s *Service) DeleteThread(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := s.client.Delete(ctx, "/threads/"+url.PathEscape(id), &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}
