package chat

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/fragen-dev/fragen/pkg/api"
	"github.com/fragen-dev/fragen/pkg/client"
	"github.com/fragen-dev/fragen/pkg/debug"
	"github.com/fragen-dev/fragen/pkg/observability"
)

// streamChannelCapacity bounds the delta channel. A slow consumer
// backpressures the producer instead of buffering the whole stream.
const streamChannelCapacity = 32

// doneSentinel terminates an SSE completion stream.
const doneSentinel = "[DONE]"

// ChatCompletionStream delivers completion deltas as they arrive. A
// producer goroutine owns the SSE reader and forwards parsed deltas over
// a bounded channel until the stream ends, errors, or the context is
// cancelled.
type ChatCompletionStream struct {
	events chan ChatCompletionDelta
	reader *client.SSEReader
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newStream(ctx context.Context, reader *client.SSEReader) *ChatCompletionStream {
	ctx, cancel := context.WithCancel(ctx)
	s := &ChatCompletionStream{
		events: make(chan ChatCompletionDelta, streamChannelCapacity),
		reader: reader,
		cancel: cancel,
	}
	observability.StreamsActive.Inc()

	// Closing the reader is what actually unblocks a producer stuck in a
	// body read; context cancellation alone cannot reach it.
	go func() {
		<-ctx.Done()
		s.reader.Close()
	}()
	go s.forward(ctx)
	return s
}

// forward reads SSE payloads, deserializes them, and sends deltas on the
// events channel. Malformed payloads are logged and skipped so a single
// bad chunk does not kill the stream. The channel is closed on exit.
func (s *ChatCompletionStream) forward(ctx context.Context) {
	defer observability.StreamsActive.Dec()
	defer close(s.events)
	defer s.cancel()

	for {
		if ctx.Err() != nil {
			return
		}

		payload, err := s.reader.Next()
		if err != nil {
			// io.EOF is a clean stream end; anything else while the
			// context is live is a transport failure.
			if err == io.EOF || ctx.Err() != nil {
				return
			}
			s.setErr(api.NewServerError("SSE stream read error: " + err.Error()))
			return
		}

		if payload == doneSentinel {
			return
		}

		var delta ChatCompletionDelta
		if err := json.Unmarshal([]byte(payload), &delta); err != nil {
			slog.Warn("skipping malformed SSE chunk",
				"error", err.Error(),
				"data", debug.Truncate(payload, 200),
			)
			observability.RecordStreamEvent("skipped")
			continue
		}

		if delta.Usage != nil {
			observability.RecordTokens(delta.Model, delta.Usage.PromptTokens, delta.Usage.CompletionTokens)
		}
		if debug.TraceIsEnabled("streaming") {
			debug.Trace("streaming", "delta received", "id", delta.ID, "choices", len(delta.Choices))
		}

		observability.RecordStreamEvent("forwarded")
		select {
		case s.events <- delta:
		case <-ctx.Done():
			return
		}
	}
}

// Events returns the delta channel. It is closed when the stream ends
// for any reason; check Err afterwards to distinguish a clean end from a
// transport failure.
func (s *ChatCompletionStream) Events() <-chan ChatCompletionDelta {
	return s.events
}

// Err reports the transport error that terminated the stream, if any.
// Valid after the events channel closes.
func (s *ChatCompletionStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the producer and releases the underlying connection. It is
// safe to call concurrently with channel consumption and more than once.
func (s *ChatCompletionStream) Close() {
	s.cancel()
}

func (s *ChatCompletionStream) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}
