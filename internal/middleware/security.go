// internal/middleware/security.go
//
// Security-header middleware for a JSON API.
//
// Injects conservative headers on every response:
//
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • X-Frame-Options           –  responses are never framed
//   • Referrer-Policy           –  no Referer leaves the API
//   • Cache-Control             –  records are per-user, never cached
//   • Strict-Transport-Security –  only when the request arrived over HTTPS
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP because the API writes JSON
//   bodies immediately; a handler may still override any of them.
// • "Over HTTPS" includes a TLS-terminating proxy that sets
//   X-Forwarded-Proto.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains"
		nosn  = "nosniff"
		xfo   = "DENY"
		refer = "no-referrer"
		cache = "no-store"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", nosn)
		h.Set("X-Frame-Options", xfo)
		h.Set("Referrer-Policy", refer)
		h.Set("Cache-Control", cache)
		if isHTTPS(r) {
			h.Set("Strict-Transport-Security", hsts)
		}
		next.ServeHTTP(w, r)
	})
}
