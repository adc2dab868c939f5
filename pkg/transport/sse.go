package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// writerState tracks the state of an EventWriter.
type writerState int

const (
	writerIdle      writerState = iota // no writes yet
	writerStreaming                    // WriteEvent has been called at least once
	writerCompleted                    // Done has been called
)

// EventWriter emits server-sent events in the wire format the streaming
// client consumes: one "data: {json}" line per event, a blank line
// between events, and a final "data: [DONE]" terminator.
type EventWriter struct {
	w  http.ResponseWriter
	rc *http.ResponseController

	mu    sync.Mutex
	state writerState
}

// NewEventWriter creates an EventWriter over the given http.ResponseWriter.
// SSE headers are set on the first event.
func NewEventWriter(w http.ResponseWriter) *EventWriter {
	return &EventWriter{
		w:  w,
		rc: http.NewResponseController(w),
	}
}

// WriteEvent marshals v as JSON and sends it as a single SSE event,
// flushing immediately.
func (s *EventWriter) WriteEvent(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return errors.New("cannot write event: writer is completed")
	}

	if s.state == writerIdle {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.state = writerStreaming
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// Done sends the [DONE] terminator and completes the writer. Further
// writes are rejected.
func (s *EventWriter) Done() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return nil
	}
	s.state = writerCompleted

	if _, err := fmt.Fprint(s.w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write [DONE]: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush [DONE]: %w", err)
	}
	return nil
}
