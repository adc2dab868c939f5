// Package auth supplies bearer credentials for API requests.
//
// Credentials are explicit values owned by the caller and passed into the
// client at construction time. There is no process-wide key registry:
// two clients in the same process can talk to two different backends with
// two different identities.
package auth

import (
	"context"
	"os"

	"github.com/fragen-dev/fragen/pkg/api"
)

// EnvAPIKey is the environment variable consulted by FromEnv.
const EnvAPIKey = "OPENAI_API_KEY"

// TokenProvider supplies the bearer token for outgoing API requests.
// Implementations may return a static key or mint short-lived tokens.
type TokenProvider interface {
	// Token returns the bearer token to send, without the "Bearer " prefix.
	Token(ctx context.Context) (string, error)
}

// APIKey is a TokenProvider backed by a static API key.
type APIKey string

// Token returns the key itself.
func (k APIKey) Token(_ context.Context) (string, error) {
	if k == "" {
		return "", api.NewAuthenticationError("API key is empty")
	}
	return string(k), nil
}

// FromEnv returns a provider backed by the OPENAI_API_KEY environment
// variable. The variable is read once, at call time.
func FromEnv() (TokenProvider, error) {
	key := os.Getenv(EnvAPIKey)
	if key == "" {
		return nil, api.NewAuthenticationError(EnvAPIKey + " is not set")
	}
	return APIKey(key), nil
}
