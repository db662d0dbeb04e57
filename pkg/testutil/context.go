package testutil

import (
	"net/http"

	"onboard/pkg/requestcontext"
)

// WithActor adds an authenticated caller identity to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithActor(req *http.Request, actor string) *http.Request {
	ctx := requestcontext.WithActor(req.Context(), actor)
	return req.WithContext(ctx)
}

// WithSource adds a calling-system identifier to the request context.
func WithSource(req *http.Request, source string) *http.Request {
	ctx := requestcontext.WithSource(req.Context(), source)
	return req.WithContext(ctx)
}

// WithAuth adds both actor and source to the request context.
// This is the typical state for an authenticated override request.
func WithAuth(req *http.Request, actor, source string) *http.Request {
	ctx := req.Context()
	if actor != "" {
		ctx = requestcontext.WithActor(ctx, actor)
	}
	if source != "" {
		ctx = requestcontext.WithSource(ctx, source)
	}
	return req.WithContext(ctx)
}

// WithRequestID adds a correlation ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}
