package auth

import (
	"context"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means no other package can read or shadow
// the identity value we store in the request context.
type contextKey string

const identityIDKey contextKey = "identityID"

// WithIdentityID returns a context carrying the authenticated identity's ID.
//
// The /graphql handler calls this exactly once per request, before any
// field resolution starts. The context is immutable from then on, so every
// guard in the request observes the same identity — fields may resolve in
// any order, concurrently, and still agree on who the caller is.
func WithIdentityID(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, identityIDKey, identityID)
}

// IdentityIDFromContext retrieves the authenticated identity's ID from the
// request context.
//
// Returns ("", false) for an anonymous request. Anonymous is an expected
// state, not an error — guards decide what anonymous callers may do.
func IdentityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityIDKey).(string)
	return id, ok && id != ""
}
