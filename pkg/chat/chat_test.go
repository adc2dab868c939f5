package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fragen-dev/fragen/pkg/auth"
	"github.com/fragen-dev/fragen/pkg/client"
)

func TestCreate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Hi there"}}],
			"usage": {"prompt_tokens":9,"completion_tokens":3,"total_tokens":12}
		}`)
	}))
	defer srv.Close()

	svc := New(client.New(auth.APIKey("sk-test"), client.WithBaseURL(srv.URL)))
	req := NewRequest("gpt-4o-mini", UserMessage("Hello")).WithTemperature(0.2)

	completion, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if completion.ID != "cmpl-1" {
		t.Errorf("id = %q", completion.ID)
	}
	msg := completion.Choices[0].Message
	if msg.Role != RoleAssistant || *msg.Content != "Hi there" {
		t.Errorf("message = %+v", msg)
	}
	if completion.Usage.TotalTokens != 12 {
		t.Errorf("usage = %+v", completion.Usage)
	}

	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("request model = %v", gotBody["model"])
	}
	if _, present := gotBody["stream"]; present {
		t.Error("buffered request must not set stream")
	}
	if gotBody["temperature"] != 0.2 {
		t.Errorf("temperature = %v", gotBody["temperature"])
	}
}

func TestCreateStream(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: "+contentChunk("cmpl-s1", "Hel")+"\n\n")
		io.WriteString(w, "data: "+contentChunk("cmpl-s1", "lo")+"\n\n")
		io.WriteString(w, `data: {"id":"cmpl-s1","choices":[{"index":0,"finish_reason":"stop","delta":{}}]}`+"\n\n")
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	svc := New(client.New(auth.APIKey("sk-test"), client.WithBaseURL(srv.URL)))
	stream, err := svc.CreateStream(context.Background(), NewRequest("gpt-4o-mini", UserMessage("Hello")))
	if err != nil {
		t.Fatalf("CreateStream() error: %v", err)
	}
	defer stream.Close()

	completion, err := stream.Accumulate()
	if err != nil {
		t.Fatalf("Accumulate() error: %v", err)
	}
	if *completion.Choices[0].Message.Content != "Hello" {
		t.Errorf("content = %q", *completion.Choices[0].Message.Content)
	}
	if completion.Choices[0].FinishReason != "stop" {
		t.Errorf("finish_reason = %q", completion.Choices[0].FinishReason)
	}

	if gotBody["stream"] != true {
		t.Error("streaming request must set stream")
	}
	opts, ok := gotBody["stream_options"].(map[string]any)
	if !ok || opts["include_usage"] != true {
		t.Errorf("stream_options = %v", gotBody["stream_options"])
	}
}

func TestCreateStreamIncremental(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, chunk := range []string{contentChunk("cmpl-s2", "a"), contentChunk("cmpl-s2", "b")} {
			io.WriteString(w, "data: "+chunk+"\n\n")
			flusher.Flush()
		}
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	svc := New(client.New(auth.APIKey("sk-test"), client.WithBaseURL(srv.URL)))
	stream, err := svc.CreateStream(context.Background(), NewRequest("gpt-4o-mini", UserMessage("hi")))
	if err != nil {
		t.Fatalf("CreateStream() error: %v", err)
	}
	defer stream.Close()

	var parts []string
	for delta := range stream.Events() {
		for _, choice := range delta.Choices {
			if choice.Delta.Content != nil {
				parts = append(parts, *choice.Delta.Content)
			}
		}
	}
	if len(parts) != 2 || parts[0] != "a" || parts[1] != "b" {
		t.Errorf("parts = %v", parts)
	}
	if err := stream.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestCreateRequestDoesNotMutateCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":"cmpl-1","choices":[]}`)
	}))
	defer srv.Close()

	svc := New(client.New(auth.APIKey("sk-test"), client.WithBaseURL(srv.URL)))
	req := NewRequest("gpt-4o-mini", UserMessage("hi"))
	req.Stream = true

	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !req.Stream {
		t.Error("caller's request was mutated")
	}
}
