package chat

import "errors"

// Accumulate drains a delta channel and folds every delta into one
// completion. The first delta seeds the accumulator; each subsequent
// delta is merged in arrival order. A merge failure is fatal and aborts
// accumulation. A channel that closes without a single delta yields
// ErrEmptyStream.
func Accumulate(events <-chan ChatCompletionDelta) (*ChatCompletion, error) {
	var acc *ChatCompletionDelta

	for delta := range events {
		if acc == nil {
			first := delta
			acc = &first
			continue
		}
		if err := acc.Merge(&delta); err != nil {
			return nil, err
		}
	}

	if acc == nil {
		return nil, ErrEmptyStream
	}

	completion := acc.ChatCompletion()
	return &completion, nil
}

// Accumulate folds the whole stream into a completion. A transport error
// takes precedence over the partial accumulation result.
func (s *ChatCompletionStream) Accumulate() (*ChatCompletion, error) {
	completion, err := Accumulate(s.events)
	if errors.Is(err, ErrEmptyStream) {
		// The channel closed without a single delta, so Err is settled.
		// A transport failure before the first delta is the real cause.
		if streamErr := s.Err(); streamErr != nil {
			return nil, streamErr
		}
		return nil, err
	}
	if err != nil {
		// A merge failure leaves the producer running; stop it.
		s.Close()
		return nil, err
	}

	// The channel is closed here, so Err is settled.
	if streamErr := s.Err(); streamErr != nil {
		return nil, streamErr
	}
	return completion, nil
}
