package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vocalis/service/internal/apikey"
	"github.com/vocalis/service/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// IdentityKey is the context key for the authenticated username.
const IdentityKey contextKey = "identity"

// Identity returns the authenticated username stored in ctx, if any.
func Identity(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(IdentityKey).(string)
	return username, ok && username != ""
}

// RequireAPIKey returns middleware that resolves a Bearer API key against the
// registry and injects the resulting identity into the request context.
// A missing or malformed header and an unrecognized key both end the request
// with 401; handlers never see an unauthenticated context.
func RequireAPIKey(registry *apikey.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			username, err := registry.Resolve(parts[1])
			if err != nil {
				response.Unauthorized(w, "invalid API key")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
