package assistants

import (
	"context"
	"net/url"

	"github.com/fragen-dev/fragen/pkg/api"
)

// Message is a message within a thread.
type Message struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	CreatedAt   int64             `json:"created_at"`
	ThreadID    string            `json:"thread_id"`
	Status      string            `json:"status,omitempty"`
	Role        string            `json:"role"`
	Content     []Content         `json:"content"`
	AssistantID string            `json:"assistant_id,omitempty"`
	RunID       string            `json:"run_id,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Content is one block of message content. Exactly one of the typed
// fields is set, matching Type.
type Content struct {
	Type     string    `json:"type"`
	Text     *Text     `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
	Refusal  string    `json:"refusal,omitempty"`
}

// Text is a text content block with source annotations.
type Text struct {
	Value       string       `json:"value"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation marks a span of text backed by a file citation.
type Annotation struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	StartIndex   int           `json:"start_index"`
	EndIndex     int           `json:"end_index"`
	FileCitation *FileCitation `json:"file_citation,omitempty"`
}

// FileCitation points at the file a citation annotation came from.
type FileCitation struct {
	FileID string `json:"file_id"`
}

// ImageURL is an image content block.
type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// MessageRequest adds a message to a thread.
type MessageRequest struct {
	Role        string            `json:"role"`
	Content     string            `json:"content"`
	Attachments []Attachment      `json:"attachments,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Attachment links a file to a message for specific tools.
type Attachment struct {
	FileID string `json:"file_id"`
	Tools  []Tool `json:"tools,omitempty"`
}

// CreateMessage appends a message to a thread.
func (s *Service) CreateMessage(ctx context.Context, threadID string, req *MessageRequest) (*Message, error) {
	var out Message
	path := "/threads/" + url.PathEscape(threadID) + "/messages"
	if err := s.client.Post(ctx, path, req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages returns one page of a thread's messages, newest first.
func (s *Service) ListMessages(ctx context.Context, threadID string) (*api.List[Message], error) {
	var out api.List[Message]
	path := "/threads/" + url.PathEscape(threadID) + "/messages"
	if err := s.client.Get(ctx, path, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}
