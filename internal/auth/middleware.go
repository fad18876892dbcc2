package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/scriptorium/internal/apperror"
)

// contextKey is an unexported type for context keys in this package, so
// no other package can read or shadow the identity we store.
type contextKey string

const identityKey contextKey = "identity"

// IdentityFromRequest authenticates a request from its Authorization
// header. This is the credential-verification contract in one place:
//
//   - no Authorization header at all → apperror.Unauthenticated (401)
//   - header present but malformed, or the token is expired/tampered/
//     mis-issued → apperror.InvalidCredential (403)
//   - valid token → the Identity it encodes
//
// The raw token value is never logged and never appears in errors.
func IdentityFromRequest(r *http.Request, tokens *TokenService) (Identity, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return Identity{}, apperror.Unauthenticated("authentication required")
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return Identity{}, apperror.InvalidCredential("authorization header must be of the form 'Bearer <token>'")
	}

	return tokens.Validate(strings.TrimSpace(token))
}

// RequireAuth enforces authentication on protected routes.
//
// It verifies the Bearer token and stores the identity in the request
// context. A missing credential stops the chain with 401; a bad one
// with 403. Handlers downstream read the caller via FromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := IdentityFromRequest(r, tokens)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces authentication and the administrator role.
//
// The role comes from the verified token, not from anything the client
// sent in the request body — the admin page's client-side gate is a
// convenience, never the authority.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := IdentityFromRequest(r, tokens)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			if id.Role != "ADMIN" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error":"forbidden","message":"admin role required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth extracts the caller's identity if a valid token is
// present but never blocks the request. Used on visitor routes where
// anonymous reads are allowed.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := IdentityFromRequest(r, tokens); err == nil && id.UserID != "" {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext retrieves the authenticated identity from the request
// context. Returns (Identity{}, false) for anonymous requests.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// writeAuthError maps the two authentication failures to their status
// codes. The middleware can't reuse handler/response.go (the handler
// package imports this one), so the mapping is inlined here with the
// same JSON shape.
func writeAuthError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	if errors.Is(err, apperror.ErrUnauthenticated) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"unauthenticated","message":"authentication required"}`))
		return
	}
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"invalid_credential","message":"invalid or expired token"}`))
}
