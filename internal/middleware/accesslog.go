// internal/middleware/accesslog.go
//
// One structured log line and one set of Prometheus samples per request.
//
// Context
// -------
// Metrics are labelled by the chi *route pattern* (`/api/websites/{id}`),
// never the raw path, so label cardinality stays bounded.  Requests that
// match no route are labelled "unmatched".  Log level follows the status
// class: 5xx → error, 4xx → warn, everything else → info.
//
// Notes
// -----
// • Must be installed with Router.Use on the root router so the route
//   context is populated by the time the handler returns.
// • Oxford commas, two spaces after periods.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/cloudself/internal/auth"
	"github.com/yanizio/cloudself/internal/metrics"
	"github.com/yanizio/cloudself/internal/requestinfo"
)

// AccessLog logs method, path, status, and duration through log and
// records request metrics.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

			uid, _ := auth.UserID(r.Context())
			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", elapsed.Milliseconds(),
				"request_id", requestinfo.ID(r.Context()),
				"user", uid,
			}
			switch {
			case status >= 500:
				log.Errorw("http request", fields...)
			case status >= 400:
				log.Warnw("http request", fields...)
			default:
				log.Infow("http request", fields...)
			}
		})
	}
}
