package middleware

import (
	"context"
	"maps"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/jwt-auth-api/tokens"
)

// claimsContextKey is unexported so only the auth gates can attach an identity
type claimsContextKey struct{}

// GetRequestIDFromContext retrieves the request ID set by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// withClaims attaches verified claims to the context
func withClaims(ctx context.Context, claims *tokens.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns a copy of the authenticated identity, if any.
// The boolean is false for anonymous requests.
func ClaimsFromContext(ctx context.Context) (tokens.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*tokens.Claims)
	if !ok || claims == nil {
		return tokens.Claims{}, false
	}
	view := *claims
	view.Payload = maps.Clone(claims.Payload)
	return view, true
}

// IsAuthenticated reports whether a gate attached an identity to the context
func IsAuthenticated(ctx context.Context) bool {
	_, ok := ClaimsFromContext(ctx)
	return ok
}
