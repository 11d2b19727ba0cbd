package testutil

import (
	"context"
	"net/http"
	"time"

	"citeguard/pkg/requestcontext"
)

// WithSubject adds an authenticated subject to the request context.
// This simulates what the auth middleware does for a valid token.
func WithSubject(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithSubject(req.Context(), subject))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
