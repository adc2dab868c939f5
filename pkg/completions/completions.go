// Package completions implements the legacy text completions API.
// Streaming was never part of this surface; use package chat for
// streaming generation.
package completions

import (
	"context"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/client"
)

// Request is a text completion request.
type Request struct {
	Model            string             `json:"model"`
	Prompt           string             `json:"prompt,omitempty"`
	Suffix           string             `json:"suffix,omitempty"`
	MaxTokens        *int               `json:"max_tokens,omitempty"`
	Temperature      *float32           `json:"temperature,omitempty"`
	TopP             *float32           `json:"top_p,omitempty"`
	N                *int               `json:"n,omitempty"`
	Logprobs         *int               `json:"logprobs,omitempty"`
	Echo             bool               `json:"echo,omitempty"`
	Stop             []string           `json:"stop,omitempty"`
	PresencePenalty  *float32           `json:"presence_penalty,omitempty"`
	FrequencyPenalty *float32           `json:"frequency_penalty,omitempty"`
	BestOf           *int               `json:"best_of,omitempty"`
	LogitBias        map[string]float32 `json:"logit_bias,omitempty"`
	User             string             `json:"user,omitempty"`
}

// Completion is a text completion response.
type Completion struct {
	ID      string     `json:"id"`
	Object  string     `json:"object"`
	Created int64      `json:"created"`
	Model   string     `json:"model"`
	Choices []Choice   `json:"choices"`
	Usage   *api.Usage `json:"usage,omitempty"`
}

// Choice is one generated text alternative.
type Choice struct {
	Text         string `json:"text"`
	Index        int    `json:"index"`
	Logprobs     any    `json:"logprobs"`
	FinishReason string `json:"finish_reason"`
}

// Service exposes the text completions operations.
type Service struct {
	client *client.Client
}

// New creates a completions service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// Create performs a buffered text completion.
func (s *Service) Create(ctx context.Context, req *Request) (*Completion, error) {
	var out Completion
	if err := s.client.Post(ctx, "/completions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
