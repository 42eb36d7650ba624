package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// user ID in a request context — no other package can collide with it.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth is middleware enforcing bearer authentication.
//
// It reads "Authorization: Bearer <token>", validates the token against the
// store, and threads the owning user's ID through the request context. The
// caller identity is always an explicit value from the context — there is
// no global "current user".
//
// Missing, malformed, unknown, and revoked tokens all produce the same 401
// body, matching the login endpoint's refusal to explain failures.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := tokens.Validate(r.Context(), bearerToken(r))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user's ID, or ("", false) for
// an anonymous request.
//
// Handlers behind RequireAuth can rely on ok being true; the second return
// exists so misuse (reading identity on a public route) fails loudly in
// tests rather than yielding an empty owner.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// WithUserID returns a context carrying the given caller identity. Tests use
// it to call protected handlers without running the middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// bearerToken extracts the credential from the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}
