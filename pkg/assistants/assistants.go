// Package assistants implements the Assistants v2 beta API: assistants,
// threads, thread messages, runs, and vector stores. Every request
// carries the OpenAI-Beta header the endpoint family requires.
package assistants

import (
	"context"
	"net/url"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/chat"
	"github.com/fragen-dev/fragen/pkg/client"
)

func beta() client.RequestOption {
	return client.WithHeader("OpenAI-Beta", "assistants=v2")
}

// Assistant is a configured assistant.
type Assistant struct {
	ID           string            `json:"id"`
	Object       string            `json:"object"`
	CreatedAt    int64             `json:"created_at"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Model        string            `json:"model"`
	Instructions string            `json:"instructions,omitempty"`
	Tools        []Tool            `json:"tools,omitempty"`
	ToolResources *ToolResources   `json:"tool_resources,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Temperature  *float32          `json:"temperature,omitempty"`
	TopP         *float32          `json:"top_p,omitempty"`
}

// Tool is an assistant tool: "code_interpreter", "file_search", or
// "function" with a definition.
type Tool struct {
	Type       string                   `json:"type"`
	Function   *chat.FunctionDefinition `json:"function,omitempty"`
	FileSearch *FileSearch              `json:"file_search,omitempty"`
}

// FileSearch tunes the file_search tool.
type FileSearch struct {
	MaxNumResults *int `json:"max_num_results,omitempty"`
}

// ToolResources attaches stores and files to an assistant's tools.
type ToolResources struct {
	CodeInterpreter *CodeInterpreterResources `json:"code_interpreter,omitempty"`
	FileSearch      *FileSearchResources      `json:"file_search,omitempty"`
}

// CodeInterpreterResources lists files available to code_interpreter.
type CodeInterpreterResources struct {
	FileIDs []string `json:"file_ids,omitempty"`
}

// FileSearchResources lists vector stores available to file_search.
type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// AssistantRequest creates or modifies an assistant.
type AssistantRequest struct {
	Model         string            `json:"model"`
	Name          string            `json:"name,omitempty"`
	Description   string            `json:"description,omitempty"`
	Instructions  string            `json:"instructions,omitempty"`
	Tools         []Tool            `json:"tools,omitempty"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Temperature   *float32          `json:"temperature,omitempty"`
	TopP          *float32          `json:"top_p,omitempty"`
}

// Deleted confirms deletion of an assistants-family object.
type Deleted struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// Service exposes the Assistants v2 operations.
type Service struct {
	client *client.Client
}

// New creates an assistants service backed by the given transport.
func New(c *client.Client) *Service {
	return &Service{client: c}
}

// CreateAssistant creates an assistant.
func (s *Service) CreateAssistant(ctx context.Context, req *AssistantRequest) (*Assistant, error) {
	var out Assistant
	if err := s.client.Post(ctx, "/assistants", req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetrieveAssistant fetches an assistant by ID.
func (s *Service) RetrieveAssistant(ctx context.Context, id string) (*Assistant, error) {
	var out Assistant
	if err := s.client.Get(ctx, "/assistants/"+url.PathEscape(id), &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// ModifyAssistant updates an assistant in place.
func (s *Service) ModifyAssistant(ctx context.Context, id string, req *AssistantRequest) (*Assistant, error) {
	var out Assistant
	if err := s.client.Post(ctx, "/assistants/"+url.PathEscape(id), req, &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAssistant removes an assistant.
func (s *Service) DeleteAssistant(ctx context.Context, id string) (*Deleted, error) {
	var out Deleted
	if err := s.client.Delete(ctx, "/assistants/"+url.PathEscape(id), &out, beta()); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAssistants returns every assistant, following cursor pages.
func (s *Service) ListAssistants(ctx context.Context) ([]Assistant, error) {
	return api.CollectAll(ctx, func(ctx context.Context, after string) (api.List[Assistant], error) {
		path := "/assistants"
		if after != "" {
			path += "?after=" + url.QueryEscape(after)
		}
		var page api.List[Assistant]
		err := s.client.Get(ctx, path, &page, beta())
		return page, err
	})
}
