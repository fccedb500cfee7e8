//
//  internal/requestinfo/requestinfo.go
//
//  Lightweight per-request metadata: a correlation id, the client IP, and
//  the arrival time.  The struct is inert, so it is safe to log or
//  JSON-encode.
//
//  Dependencies
//  • github.com/google/uuid   (request ids)
//

package requestinfo

import (
	"context"
	"net"
	"time"
)

// HeaderRequestID carries the correlation id in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestInfo is attached to every request context by Enrich.
type RequestInfo struct {
	ID        string    // Inbound X-Request-ID or a fresh UUID
	ClientIP  net.IP    // Left-most forwarded address or RemoteAddr
	Timestamp time.Time // Arrival time, UTC
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich.
// It returns nil if the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// ID is a nil-safe shorthand for FromContext(ctx).ID.
func ID(ctx context.Context) string {
	if info := FromContext(ctx); info != nil {
		return info.ID
	}
	return ""
}
