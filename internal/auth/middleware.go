package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
)

// Verifier checks a bearer token and resolves the user it belongs to.
// TokenService is the production implementation; tests substitute stubs.
type Verifier interface {
	Verify(ctx context.Context, token string) (userID string, err error)
}

// Identity is the authenticated principal attached to a request. The raw
// bearer token is carried along so downstream calls stay scoped to the
// caller rather than any privileged credential.
type Identity struct {
	UserID string
	Token  string
}

type contextKey struct{}

var identityKey contextKey

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the authenticated identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// RequireAuth enforces bearer authentication on protected routes.
//
// The exact rejection sequence: no Authorization header → "Missing
// authentication token"; header without the Bearer prefix → "Invalid
// authentication token format"; Bearer with an empty token → "Missing
// authentication token"; verification failure → "Invalid or expired
// authentication token". Every rejection is a 401 with code UNAUTHORIZED,
// written before any further work runs.
func RequireAuth(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "Missing authentication token")
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				writeUnauthorized(w, "Invalid authentication token format")
				return
			}

			token := strings.TrimSpace(header[len(prefix):])
			if token == "" {
				writeUnauthorized(w, "Missing authentication token")
				return
			}

			userID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, "Invalid or expired authentication token")
				return
			}

			ctx := WithIdentity(r.Context(), Identity{UserID: userID, Token: token})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(apperror.Unauthorized(message).Envelope())
}
