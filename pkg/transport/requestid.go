package transport

import (
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RequestID returns middleware that assigns a unique request ID to each
// request. If the incoming request carries an X-Request-Id header (the
// client packages set one), that value is used. Otherwise a new ID is
// generated. The ID is stored in the request context and echoed back
// in the response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = generateRequestID()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r.WithContext(ContextWithRequestID(r.Context(), id)))
		})
	}
}

func generateRequestID() string {
	if id, err := gonanoid.New(); err == nil {
		return "req_" + id
	}
	return "req_unknown"
}
