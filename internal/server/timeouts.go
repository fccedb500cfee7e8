// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris uploads (default 10 s)
//   • WriteTimeout  – cap total response time (default 15 s)
//   • IdleTimeout   – close keep-alives on idle clients (default 60 s)
//
// Zero values in Timeouts fall back to those defaults.  ReadHeaderTimeout
// is pinned to the read timeout so a client cannot stall on headers alone.
//

package server

import (
	"net/http"
	"time"
)

// Timeouts mirrors the http.*_timeout config keys.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
	Idle  time.Duration
}

const (
	defaultRead  = 10 * time.Second
	defaultWrite = 15 * time.Second
	defaultIdle  = 60 * time.Second
)

// New constructs an *http.Server with t applied over the defaults.
func New(addr string, handler http.Handler, t Timeouts) *http.Server {
	read := or(t.Read, defaultRead)
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      or(t.Write, defaultWrite),
		IdleTimeout:       or(t.Idle, defaultIdle),
	}
}

func or(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
