// internal/api/health.go
//
// GET /health.
//
// Context
// -------
// The report is for load balancers and humans alike:
//
//	{"status":"ok","timestamp":"…","uptime":12.5,
//	 "services":{"api":"healthy","database":"healthy","events":"disabled"}}
//
// Only the database decides the status code.  An unreachable event stream
// is reported as "unhealthy" but the API still answers 200, because
// events are best effort.
package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger is anything with a liveness probe.  website.Store and
// events.Publisher both qualify.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	healthy   = "healthy"
	unhealthy = "unhealthy"
	disabled  = "disabled"

	pingTimeout = 2 * time.Second
)

type healthReport struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    float64           `json:"uptime"`
	Services  map[string]string `json:"services"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	rep := healthReport{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Seconds(),
		Services:  map[string]string{"api": healthy},
	}

	rep.Services["database"] = probe(r.Context(), h.db)
	if rep.Services["database"] != healthy {
		rep.Status = "degraded"
	}
	if h.events == nil {
		rep.Services["events"] = disabled
	} else {
		rep.Services["events"] = probe(r.Context(), h.events)
	}

	code := http.StatusOK
	if rep.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, rep)
}

func probe(ctx context.Context, p Pinger) string {
	if p == nil {
		return unhealthy
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return unhealthy
	}
	return healthy
}
