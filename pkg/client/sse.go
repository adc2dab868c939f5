package client

import (
	"bufio"
	"io"
	"strings"
)

// maxSSELineSize bounds a single SSE line. Chat completion deltas are
// small, but tool call arguments can arrive in large fragments.
const maxSSELineSize = 1024 * 1024

// SSEReader frames a text/event-stream response body into data payloads.
//
// Format expected:
//
//	data: {"id":"...","choices":[...]}\n
//	\n
//	data: [DONE]\n
//	\n
//
// Comment lines (starting with ":") and other fields are ignored.
type SSEReader struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// NewSSEReader wraps a response body in an SSEReader. The reader takes
// ownership of the body; Close releases it.
func NewSSEReader(body io.ReadCloser) *SSEReader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEReader{
		body:    body,
		scanner: scanner,
	}
}

// Next returns the payload of the next "data:" line. It returns io.EOF
// when the body ends cleanly, and the underlying read error otherwise.
// The [DONE] sentinel is returned to the caller as a regular payload.
func (r *SSEReader) Next() (string, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		return strings.TrimPrefix(line, "data: "), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Close releases the underlying response body.
func (r *SSEReader) Close() error {
	return r.body.Close()
}
