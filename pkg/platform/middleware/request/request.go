// Package request provides request ID middleware for correlation across
// logs, audit events, and error responses.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"onboard/pkg/requestcontext"
)

// HeaderRequestID is the header clients may use to supply their own
// correlation ID. A fresh UUID is generated when absent.
const HeaderRequestID = "X-Request-Id"

// Middleware ensures every request carries a request ID in its context and
// echoes it back on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(HeaderRequestID, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
