package api

import (
	"context"
	"net/http"

	"github.com/yanizio/cloudself/internal/auth"
	"github.com/yanizio/cloudself/internal/website"
)

// WebsiteService is the user-facing surface the handlers need.
// *service.Websites satisfies it.
type WebsiteService interface {
	Create(ctx context.Context, userID, name, title, html string) (*website.Record, error)
	List(ctx context.Context, userID string) ([]website.Record, error)
	Get(ctx context.Context, id int64, userID string) (*website.Record, error)
}

type createRequest struct {
	WebsiteName  string `json:"websiteName"`
	WebsiteTitle string `json:"websiteTitle"`
	HTMLContent  string `json:"htmlContent"`
}

// POST /api/websites
func (h *handler) createWebsite(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	rec, err := h.sites.Create(r.Context(), uid, req.WebsiteName, req.WebsiteTitle, req.HTMLContent)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, rec)
}

// GET /api/websites
func (h *handler) listWebsites(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserID(r.Context())
	recs, err := h.sites.List(r.Context(), uid)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeList(w, recs)
}

// GET /api/websites/{id}
func (h *handler) getWebsite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	uid, _ := auth.UserID(r.Context())
	rec, err := h.sites.Get(r.Context(), id, uid)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}
