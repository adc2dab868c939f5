// Package embeddings implements the embeddings API for single and batch
// inputs.
package embeddings

import (
	"context"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/client"
)

// Request is an embeddings request. Input accepts a string or a []string
// for batch embedding.
type Request struct {
	Model string `json:"model"`
	Input any    `json:"input"`

	// EncodingFormat is "float" (default) or "base64".
	EncodingFormat string `json:"encoding_format,omitempty"`

	// Dimensions truncates the output vectors (text-embedding-3 models).
	Dimensions *int `json:"dimensions,omitempty"`

	User string `json:"user,omitempty"`
}

// Response carries the embedding vectors for all inputs, in input order.
type Response struct {
	Object string      `json:"object"`
	Data   []Embedding `json:"data"`
	Model  string      `json:"model"`
	Usage  *api.Usage  `json:"usage,omitempty"`
}

// Embedding is one input's vector.
type Embedding struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

// Service exposes the embeddings operations.
type Service struct {
	client *client.Client
}

// New creates an embeddings service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// Create embeds one or many inputs.
func (s *Service) Create(ctx context.Context, req *Request) (*Response, error) {
	var out Response
	if err := s.client.Post(ctx, "/embeddings", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Embed is a convenience wrapper that embeds a single input and returns
// its vector.
func (s *Service) Embed(ctx context.Context, model, input string) ([]float32, error) {
	out, err := s.Create(ctx, &Request{Model: model, Input: input})
	if err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, api.NewServerError("embeddings response contained no data")
	}
	return out.Data[0].Embedding, nil
}
