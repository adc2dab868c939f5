// Package transport provides server-side HTTP helpers for running an
// OpenAI-compatible endpoint: composable middleware (request IDs,
// structured request logging, panic recovery) and an SSE event writer
// that emits chat completion chunks in the wire format the client
// packages consume.
//
// It backs the fragen-mock command and is usable from tests that need
// an in-process backend.
package transport
