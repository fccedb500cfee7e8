// internal/auth/context.go
//
// Caller identity helpers.
//
// Context
// -------
// Real authentication is not implemented yet.  The API trusts a request
// header naming the user (X-User-ID by default) and falls back to a fixed
// placeholder identity when it is absent.  Handlers read the identity from
// the request context only, so swapping in a real mechanism later touches
// this package and nothing else.
//
// Usage
// -----
//
//	r.Use(auth.Identity("X-User-ID", "demo-user"))
//	uid, ok := auth.UserID(r.Context())
//
// Notes
// -----
//   - Oxford commas, two spaces after periods.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// userKey is unexported to avoid context-key collisions.
type userKey struct{}

// WithUser returns a new context carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserID extracts the user id from ctx.  It returns ("", false) when no
// identity has been attached.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}

// Identity attaches the caller named by header, or fallback when the header
// is missing or blank.
func Identity(header, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := strings.TrimSpace(r.Header.Get(header))
			if uid == "" {
				uid = fallback
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), uid)))
		})
	}
}
