// Package models implements the model catalog API.
package models

import (
	"context"
	"net/url"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/client"
)

// Model describes one available model.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// Deleted confirms a model deletion.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Service exposes the model catalog operations.
type Service struct {
	client *client.Client
}

// New creates a models service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// List returns all models available to the caller.
func (s *Service) List(ctx context.Context) ([]Model, error) {
	var out api.List[Model]
	if err := s.client.Get(ctx, "/models", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Retrieve fetches a single model by ID.
func (s *Service) Retrieve(ctx context.Context, id string) (*Model, error) {
	var out Model
	if err := s.client.Get(ctx, "/models/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a fine-tuned model the caller owns.
func (s *Service) Delete(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := s.client.Delete(ctx, "/models/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
