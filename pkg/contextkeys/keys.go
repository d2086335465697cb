// Package contextkeys provides centralized context key definitions
//
// All context keys used across the application are defined here. This
// prevents typos, documents dependencies, and makes key usage discoverable.
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// PrincipalIDKey contains the authenticated user's ID string.
	// Set by: middleware.Authenticate (pkg/middleware/auth.go)
	// Required by: role/permission middleware, user-scoped handlers
	// Type: string
	PrincipalIDKey Key = "principal_id"

	// RequestIDKey contains the request ID string (UUID).
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger
	// Type: string
	RequestIDKey Key = "request_id"
)

// WithPrincipalID adds the authenticated user's ID to the context
func WithPrincipalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, PrincipalIDKey, id)
}

// PrincipalID extracts the authenticated user's ID from the context.
// The second return is false when no authentication middleware ran.
func PrincipalID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(PrincipalIDKey).(string)
	return id, ok && id != ""
}

// WithRequestID adds the request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID extracts the request ID from the context
func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok && id != ""
}
