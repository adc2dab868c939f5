// Package chat implements the Chat Completions API: buffered completions,
// SSE streaming with incremental deltas, delta merging, and accumulation of
// a delta stream into a full completion.
//
// The streaming model is a producer goroutine that parses SSE events and
// forwards typed deltas over a bounded channel. Consumers either range over
// Events() for incremental display or call Accumulate() to fold the whole
// stream into a ChatCompletion.
package chat
