package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fragen-dev/fragen/pkg/client"
)

func sseBody(payloads ...string) io.ReadCloser {
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString("data: ")
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	return io.NopCloser(strings.NewReader(b.String()))
}

func contentChunk(id string, content string) string {
	return fmt.Sprintf(`{"id":%q,"object":"chat.completion.chunk","model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":%q}}]}`, id, content)
}

func collect(t *testing.T, s *ChatCompletionStream) []ChatCompletionDelta {
	t.Helper()
	var deltas []ChatCompletionDelta
	timeout := time.After(5 * time.Second)
	for {
		select {
		case delta, ok := <-s.Events():
			if !ok {
				return deltas
			}
			deltas = append(deltas, delta)
		case <-timeout:
			t.Fatal("timed out waiting for stream to close")
		}
	}
}

func TestStreamForwardsInOrder(t *testing.T) {
	body := sseBody(
		contentChunk("cmpl-1", "Hel"),
		contentChunk("cmpl-1", "lo"),
		"[DONE]",
	)
	s := newStream(context.Background(), client.NewSSEReader(body))

	deltas := collect(t, s)
	if len(deltas) != 2 {
		t.Fatalf("deltas = %d, want 2", len(deltas))
	}
	if *deltas[0].Choices[0].Delta.Content != "Hel" || *deltas[1].Choices[0].Delta.Content != "lo" {
		t.Errorf("order not preserved: %v, %v", *deltas[0].Choices[0].Delta.Content, *deltas[1].Choices[0].Delta.Content)
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestStreamSkipsMalformedChunks(t *testing.T) {
	body := sseBody(
		contentChunk("cmpl-1", "Hel"),
		`{"id": not even json`,
		contentChunk("cmpl-1", "lo"),
		"[DONE]",
	)
	s := newStream(context.Background(), client.NewSSEReader(body))

	deltas := collect(t, s)
	if len(deltas) != 2 {
		t.Fatalf("deltas = %d, want exactly 2 (malformed skipped)", len(deltas))
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v, malformed chunks are not fatal", err)
	}
}

func TestStreamAccumulate(t *testing.T) {
	body := sseBody(
		contentChunk("cmpl-1", "Hel"),
		`not json at all`,
		contentChunk("cmpl-1", "lo"),
		`{"id":"cmpl-1","choices":[{"index":0,"finish_reason":"stop","delta":{}}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`,
		"[DONE]",
	)
	s := newStream(context.Background(), client.NewSSEReader(body))

	completion, err := s.Accumulate()
	if err != nil {
		t.Fatalf("Accumulate() error: %v", err)
	}
	msg := completion.Choices[0].Message
	if *msg.Content != "Hello" {
		t.Errorf("content = %q, want %q", *msg.Content, "Hello")
	}
	if completion.Choices[0].FinishReason != "stop" {
		t.Errorf("finish_reason = %q", completion.Choices[0].FinishReason)
	}
	if completion.Usage == nil || completion.Usage.TotalTokens != 5 {
		t.Errorf("usage = %+v", completion.Usage)
	}
}

func TestStreamAccumulateEmpty(t *testing.T) {
	s := newStream(context.Background(), client.NewSSEReader(sseBody("[DONE]")))

	_, err := s.Accumulate()
	if !errors.Is(err, ErrEmptyStream) {
		t.Errorf("Accumulate() error = %v, want ErrEmptyStream", err)
	}
}

func TestStreamAccumulateMergeFailure(t *testing.T) {
	body := sseBody(
		contentChunk("cmpl-1", "a"),
		contentChunk("cmpl-2", "b"),
		"[DONE]",
	)
	s := newStream(context.Background(), client.NewSSEReader(body))

	_, err := s.Accumulate()
	if !errors.Is(err, ErrDifferentCompletionIDs) {
		t.Errorf("Accumulate() error = %v, want ErrDifferentCompletionIDs", err)
	}
}

// errorReader yields its payload and then fails, simulating a dropped
// connection mid-stream.
type errorReader struct {
	r   io.Reader
	err error
}

func (e *errorReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == io.EOF {
		return n, e.err
	}
	return n, err
}

func (e *errorReader) Close() error { return nil }

func TestStreamTransportError(t *testing.T) {
	body := &errorReader{
		r:   strings.NewReader("data: " + contentChunk("cmpl-1", "Hel") + "\n\n"),
		err: errors.New("connection reset"),
	}
	s := newStream(context.Background(), client.NewSSEReader(body))

	deltas := collect(t, s)
	if len(deltas) != 1 {
		t.Fatalf("deltas = %d, want 1 before the failure", len(deltas))
	}
	err := s.Err()
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("Err() = %v, want transport error", err)
	}

	// Accumulate over a fresh stream with the same failure reports the
	// transport error, not the partial result.
	body2 := &errorReader{
		r:   strings.NewReader("data: " + contentChunk("cmpl-1", "Hel") + "\n\n"),
		err: errors.New("connection reset"),
	}
	s2 := newStream(context.Background(), client.NewSSEReader(body2))
	if _, err := s2.Accumulate(); err == nil {
		t.Error("Accumulate() = nil error after transport failure")
	}
}

func TestStreamAccumulateTransportErrorBeforeFirstDelta(t *testing.T) {
	body := &errorReader{
		r:   strings.NewReader(""),
		err: errors.New("connection reset by peer"),
	}
	s := newStream(context.Background(), client.NewSSEReader(body))

	_, err := s.Accumulate()
	if err == nil {
		t.Fatal("Accumulate() = nil error after transport failure")
	}
	if errors.Is(err, ErrEmptyStream) {
		t.Fatalf("Accumulate() = %v, want the transport error", err)
	}
	if !strings.Contains(err.Error(), "connection reset by peer") {
		t.Errorf("Accumulate() = %v, want transport error", err)
	}
}

// blockingReader never returns until closed, standing in for an idle
// connection.
type blockingReader struct {
	unblock chan struct{}
	once    sync.Once
}

func (b *blockingReader) Read(p []byte) (int, error) {
	<-b.unblock
	return 0, io.EOF
}

func (b *blockingReader) Close() error {
	b.once.Do(func() { close(b.unblock) })
	return nil
}

func TestStreamCloseStopsProducer(t *testing.T) {
	body := &blockingReader{unblock: make(chan struct{})}
	s := newStream(context.Background(), client.NewSSEReader(body))

	s.Close()

	select {
	case _, ok := <-s.Events():
		if ok {
			t.Error("unexpected delta after Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close")
	}
}

func TestStreamContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	body := &blockingReader{unblock: make(chan struct{})}
	s := newStream(ctx, client.NewSSEReader(body))

	cancel()

	select {
	case _, ok := <-s.Events():
		if ok {
			t.Error("unexpected delta after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not close after context cancellation")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v, cancellation is not a transport error", err)
	}
}
