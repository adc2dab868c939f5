// Package mock implements a deterministic OpenAI-compatible backend for
// development and testing. Responses depend only on request content, so
// assertions against them are stable. The fragen-mock command serves it
// standalone; tests mount it on an httptest server.
package mock

import (
	"encoding/json"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/chat"
	"github.com/fragen-dev/fragen/pkg/embeddings"
	"github.com/fragen-dev/fragen/pkg/models"
	"github.com/fragen-dev/fragen/pkg/moderations"
	"github.com/fragen-dev/fragen/pkg/transport"
)

// embeddingDimensions is the vector size returned by the mock
// embeddings endpoint.
const embeddingDimensions = 8

// Backend holds the mock endpoint handlers. When apiKey is non-empty,
// every request must carry it as a bearer token.
type Backend struct {
	apiKey string
}

// NewBackend creates a Backend. Pass an empty apiKey to disable the
// auth check.
func NewBackend(apiKey string) *Backend {
	return &Backend{apiKey: apiKey}
}

// Register mounts the mock endpoints on the given mux.
func (b *Backend) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/chat/completions", b.auth(b.handleChatCompletions))
	mux.HandleFunc("GET /v1/models", b.auth(b.handleModels))
	mux.HandleFunc("POST /v1/embeddings", b.auth(b.handleEmbeddings))
	mux.HandleFunc("POST /v1/moderations", b.auth(b.handleModerations))
}

func (b *Backend) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if b.apiKey != "" && r.Header.Get("Authorization") != "Bearer "+b.apiKey {
			transport.WriteError(w, http.StatusUnauthorized,
				api.NewAuthenticationError("invalid or missing API key"))
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// --- Chat completions ---

func (b *Backend) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest,
			api.NewInvalidRequestError("", "invalid request body"))
		return
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}

	if req.Stream {
		b.streamChat(w, &req, model)
		return
	}

	writeJSON(w, b.classifyAndRespond(&req, model))
}

// classifyAndRespond picks a deterministic reply based on the request
// shape: tool definitions trigger a tool call, a system prompt switches
// the voice, and a few known prompts get fixed answers.
func (b *Backend) classifyAndRespond(req *chat.Request, model string) chat.ChatCompletion {
	if len(req.Tools) > 0 {
		return toolCallCompletion(model)
	}
	if hasSystemPrompt(req) {
		return textCompletion(model, "Ahoy there, matey! Welcome aboard!")
	}
	return textCompletion(model, replyFor(lastUserMessage(req)))
}

func replyFor(prompt string) string {
	if strings.Contains(strings.ToLower(prompt), "count from 1 to 5") {
		return "1, 2, 3, 4, 5"
	}
	return "Hello, nice day!"
}

func textCompletion(model, text string) chat.ChatCompletion {
	return chat.ChatCompletion{
		ID:      "chatcmpl-mock-text",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chat.Choice{
			{
				Index:        0,
				FinishReason: "stop",
				Message:      chat.AssistantMessage(text),
			},
		},
		Usage: &api.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func toolCallCompletion(model string) chat.ChatCompletion {
	return chat.ChatCompletion{
		ID:      "chatcmpl-mock-tool",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chat.Choice{
			{
				Index:        0,
				FinishReason: "tool_calls",
				Message: chat.Message{
					Role: chat.RoleAssistant,
					ToolCalls: []chat.ToolCall{
						{
							ID:   "call_mock_1",
							Type: "function",
							Function: chat.FunctionCall{
								Name:      "get_weather",
								Arguments: `{"location":"San Francisco","unit":"celsius"}`,
							},
						},
					},
				},
			},
		},
		Usage: &api.Usage{PromptTokens: 20, CompletionTokens: 15, TotalTokens: 35},
	}
}

// streamChat emits the reply token by token as SSE chunks, ending with
// a finish chunk carrying usage and the [DONE] terminator.
func (b *Backend) streamChat(w http.ResponseWriter, req *chat.Request, model string) {
	ew := transport.NewEventWriter(w)

	tokens := tokenize(replyFor(lastUserMessage(req)))

	// Role chunk first.
	if err := ew.WriteEvent(deltaChunk(model, chat.MessageDelta{Role: chat.RoleAssistant}, "", nil)); err != nil {
		return
	}

	for _, token := range tokens {
		token := token
		chunk := deltaChunk(model, chat.MessageDelta{Content: &token}, "", nil)
		if err := ew.WriteEvent(chunk); err != nil {
			return
		}
	}

	usage := &api.Usage{
		PromptTokens:     10,
		CompletionTokens: len(tokens),
		TotalTokens:      10 + len(tokens),
	}
	if err := ew.WriteEvent(deltaChunk(model, chat.MessageDelta{}, "stop", usage)); err != nil {
		return
	}
	_ = ew.Done()
}

func deltaChunk(model string, delta chat.MessageDelta, finishReason string, usage *api.Usage) chat.ChatCompletionDelta {
	return chat.ChatCompletionDelta{
		ID:      "chatcmpl-mock-stream",
		Object:  "chat.completion.chunk",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chat.ChoiceDelta{
			{
				Index:        0,
				FinishReason: finishReason,
				Delta:        delta,
			},
		},
		Usage: usage,
	}
}

// tokenize splits text into word-and-separator tokens so streamed
// chunks concatenate back to the original text.
func tokenize(text string) []string {
	words := strings.Split(text, " ")
	tokens := make([]string, 0, len(words)*2)
	for i, word := range words {
		if i > 0 {
			tokens = append(tokens, " ")
		}
		tokens = append(tokens, word)
	}
	return tokens
}

func lastUserMessage(req *chat.Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		m := req.Messages[i]
		if m.Role == chat.RoleUser && m.Content != nil {
			return *m.Content
		}
	}
	return ""
}

func hasSystemPrompt(req *chat.Request) bool {
	for _, m := range req.Messages {
		if m.Role == chat.RoleSystem {
			return true
		}
	}
	return false
}

// --- Models ---

func (b *Backend) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, api.List[models.Model]{
		Object: "list",
		Data: []models.Model{
			{ID: "mock-model", Object: "model", Created: 1700000000, OwnedBy: "fragen-mock"},
			{ID: "mock-embedding", Object: "model", Created: 1700000000, OwnedBy: "fragen-mock"},
		},
	})
}

// --- Embeddings ---

func (b *Backend) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req embeddings.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest,
			api.NewInvalidRequestError("", "invalid request body"))
		return
	}

	inputs := embeddingInputs(req.Input)
	if len(inputs) == 0 {
		transport.WriteError(w, http.StatusBadRequest,
			api.NewInvalidRequestError("input", "input must be a string or array of strings"))
		return
	}

	resp := embeddings.Response{
		Object: "list",
		Model:  req.Model,
		Usage:  &api.Usage{PromptTokens: len(inputs), TotalTokens: len(inputs)},
	}
	for i, input := range inputs {
		resp.Data = append(resp.Data, embeddings.Embedding{
			Object:    "embedding",
			Index:     i,
			Embedding: embeddingVector(input),
		})
	}
	writeJSON(w, resp)
}

func embeddingInputs(input any) []string {
	switch v := input.(type) {
	case string:
		return []string{v}
	case []any:
		var inputs []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				inputs = append(inputs, s)
			}
		}
		return inputs
	}
	return nil
}

// embeddingVector derives a stable pseudo-embedding from the input text.
func embeddingVector(input string) []float32 {
	vector := make([]float32, embeddingDimensions)
	for i := range vector {
		h := fnv.New32a()
		h.Write([]byte(input))
		h.Write([]byte{byte(i)})
		vector[i] = float32(h.Sum32()%1000) / 1000
	}
	return vector
}

// --- Moderations ---

func (b *Backend) handleModerations(w http.ResponseWriter, r *http.Request) {
	var req moderations.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteError(w, http.StatusBadRequest,
			api.NewInvalidRequestError("", "invalid request body"))
		return
	}

	flagged := strings.Contains(strings.ToLower(req.Input), "violence")
	result := moderations.Result{Flagged: flagged}
	if flagged {
		result.Categories.Violence = true
		result.CategoryScores.Violence = 0.99
	}

	writeJSON(w, moderations.Moderation{
		ID:      "modr-mock",
		Model:   "mock-moderation",
		Results: []moderations.Result{result},
	})
}
