package auth

import (
	"net/http"
	"strings"
)

// BearerToken extracts the raw token from an HTTP request.
//
// Accepts both "Authorization: Bearer <token>" and a bare
// "Authorization: <token>" header. Returns "" when no credential is
// present — the request is anonymous, which is a valid state.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(header)
}

// ContextMiddleware resolves the request's bearer token into an identity
// context before the handler runs.
//
// TOKEN FAILURE DEGRADES TO ANONYMOUS:
// A missing, malformed, tampered, or expired token does NOT produce an
// error response here. The request continues with no identity, and the
// authorization guards reject whatever an anonymous caller may not do.
// Authentication is checked once per request, right here; authorization
// is re-checked at every guarded field.
func ContextMiddleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := BearerToken(r); raw != "" {
				if identityID, err := tokens.Validate(raw); err == nil {
					r = r.WithContext(WithIdentityID(r.Context(), identityID))
				}
				// invalid token: fall through as anonymous
			}
			next.ServeHTTP(w, r)
		})
	}
}
