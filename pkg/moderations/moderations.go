// Package moderations implements the content moderation API.
package moderations

import (
	"context"

	"github.com/fragen-dev/fragen/pkg/client"
)

// Request is a moderation request.
type Request struct {
	Input string `json:"input"`
	Model string `json:"model,omitempty"`
}

// Moderation is a moderation response.
type Moderation struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Results []Result `json:"results"`
}

// Result is the moderation verdict for one input.
type Result struct {
	Flagged        bool           `json:"flagged"`
	Categories     Categories     `json:"categories"`
	CategoryScores CategoryScores `json:"category_scores"`
}

// Categories holds the per-category boolean verdicts. The slash-named
// wire fields keep the API's original spelling.
type Categories struct {
	Hate                 bool `json:"hate"`
	HateThreatening      bool `json:"hate/threatening"`
	Harassment           bool `json:"harassment"`
	HarassmentThreats    bool `json:"harassment/threatening"`
	SelfHarm             bool `json:"self-harm"`
	SelfHarmIntent       bool `json:"self-harm/intent"`
	SelfHarmInstructions bool `json:"self-harm/instructions"`
	Sexual               bool `json:"sexual"`
	SexualMinors         bool `json:"sexual/minors"`
	Violence             bool `json:"violence"`
	ViolenceGraphic      bool `json:"violence/graphic"`
}

// CategoryScores holds the per-category confidence scores.
type CategoryScores struct {
	Hate                 float64 `json:"hate"`
	HateThreatening      float64 `json:"hate/threatening"`
	Harassment           float64 `json:"harassment"`
	HarassmentThreats    float64 `json:"harassment/threatening"`
	SelfHarm             float64 `json:"self-harm"`
	SelfHarmIntent       float64 `json:"self-harm/intent"`
	SelfHarmInstructions float64 `json:"self-harm/instructions"`
	Sexual               float64 `json:"sexual"`
	SexualMinors         float64 `json:"sexual/minors"`
	Violence             float64 `json:"violence"`
	ViolenceGraphic      float64 `json:"violence/graphic"`
}

// Service exposes the moderation operations.
type Service struct {
	client *client.Client
}

// New creates a moderations service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// Create classifies the input against the moderation categories.
func (s *Service) Create(ctx context.Context, req *Request) (*Moderation, error) {
	var out Moderation
	if err := s.client.Post(ctx, "/moderations", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
