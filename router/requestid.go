package router

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the ID stored by the RequestIDs middleware, or an empty
// string.
func RequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDs returns a middleware that tags every request with a UUID v7
// request ID, echoed in the RequestIDHeader response header. When
// trustIncoming is set a non-empty incoming header is reused.
func RequestIDs(trustIncoming bool) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if trustIncoming {
				id = r.Header.Get(RequestIDHeader)
			}
			if id == "" {
				id = uuid.Must(uuid.NewV7()).String()
			}

			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}
