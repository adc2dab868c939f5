package transport

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fragen-dev/fragen/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to a JSON error response. The server keeps accepting
// requests after a panic is recovered.
func Recovery() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						"request_id", RequestIDFromContext(r.Context()),
						"panic", rec,
					)
					WriteError(w, http.StatusInternalServerError,
						api.NewServerError(fmt.Sprintf("internal server error: %v", rec)))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WriteError writes an APIError as the standard JSON error envelope
// with the given HTTP status.
func WriteError(w http.ResponseWriter, status int, apiErr *api.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}
