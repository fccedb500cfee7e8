package middleware

import "net/http"

// LimitBody caps request bodies at n bytes.  Reads past the cap fail with
// *http.MaxBytesError, which the API maps to 413.  Requests that declare
// an oversized Content-Length are rejected by the decoder on first read.
func LimitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
