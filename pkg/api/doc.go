// Package api holds the wire-level building blocks shared by every
// resource package in the SDK: the OpenAI error envelope, token usage
// accounting, and cursor-based list pagination.
package api
