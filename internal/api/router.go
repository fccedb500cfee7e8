// internal/api/router.go
//
// HTTP routing for cloudself.
//
/*
Context
--------
NewRouter assembles the whole HTTP surface on one chi router:

	POST /api/websites                           user: create request
	GET  /api/websites                           user: list own requests
	GET  /api/websites/{id}                      user: one own request
	GET  /api/provisioner/websites/pending       provisioner: backlog
	PUT  /api/provisioner/websites/{id}/status   provisioner: report outcome
	GET  /health                                 ops
	GET  /metrics                                ops (Prometheus)

Middleware order, outermost first: request id, HTTPS redirect, caller
identity, access log + metrics, panic recovery, security headers, CORS,
and body limit.  Identity sits outside the access log so log lines carry
the user.

Notes
-----
  • The provisioner routes are unauthenticated; deploy them on a private
    network.
  • Oxford commas, two spaces after periods.
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/cloudself/internal/auth"
	"github.com/yanizio/cloudself/internal/middleware"
	"github.com/yanizio/cloudself/internal/requestinfo"
)

// DefaultMaxBodyBytes leaves headroom above the 100 KB content limit so
// oversize content still reaches the validator and gets its precise
// message.
const DefaultMaxBodyBytes = 150 * 1024

// Options carries the HTTP-facing configuration.
type Options struct {
	MaxBodyBytes int64
	CORSOrigins  []string
	ForceHTTPS   bool
	UserHeader   string
	DefaultUser  string
}

// Deps are the collaborators the handlers call.  Events may be nil when
// publishing is disabled.
type Deps struct {
	Websites    WebsiteService
	Provisioner ProvisionerService
	Database    Pinger
	Events      Pinger
	Log         *zap.SugaredLogger
}

type handler struct {
	sites   WebsiteService
	prov    ProvisionerService
	db      Pinger
	events  Pinger
	log     *zap.SugaredLogger
	started time.Time
}

// NewRouter returns the fully wired http.Handler.
func NewRouter(d Deps, o Options) http.Handler {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.UserHeader == "" {
		o.UserHeader = "X-User-ID"
	}
	if o.DefaultUser == "" {
		o.DefaultUser = "demo-user"
	}
	log := d.Log
	if log == nil {
		log = zap.S()
	}

	h := &handler{
		sites:   d.Websites,
		prov:    d.Provisioner,
		db:      d.Database,
		events:  d.Events,
		log:     log,
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(
		requestinfo.Enrich,
		middleware.ForceHTTPS(o.ForceHTTPS),
		auth.Identity(o.UserHeader, o.DefaultUser),
		middleware.AccessLog(log),
		chimw.Recoverer,
		middleware.Security,
	)
	if len(o.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   o.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", o.UserHeader, requestinfo.HeaderRequestID},
			ExposedHeaders:   []string{requestinfo.HeaderRequestID},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(middleware.LimitBody(o.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.URL.RequestURI()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed,
			fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Get("/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/websites", func(r chi.Router) {
		r.Post("/", h.createWebsite)
		r.Get("/", h.listWebsites)
		r.Get("/{id}", h.getWebsite)
	})
	r.Route("/api/provisioner/websites", func(r chi.Router) {
		r.Get("/pending", h.pendingWebsites)
		r.Put("/{id}/status", h.updateStatus)
	})

	return r
}
