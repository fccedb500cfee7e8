package api

import (
	"context"
	"net/http"

	"github.com/yanizio/cloudself/internal/website"
)

// ProvisionerService is the provisioner-facing surface the handlers need.
// *service.Provisioner satisfies it.
type ProvisionerService interface {
	Pending(ctx context.Context) ([]website.Record, error)
	UpdateStatus(ctx context.Context, id int64, status, podIP, errorMsg string) (*website.Record, error)
}

// StatusRequest is the body of PUT /api/provisioner/websites/{id}/status.
// Null and absent optional fields decode to "".
type StatusRequest struct {
	Status       string `json:"status"`
	PodIPAddress string `json:"podIpAddress,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// GET /api/provisioner/websites/pending
func (h *handler) pendingWebsites(w http.ResponseWriter, r *http.Request) {
	recs, err := h.prov.Pending(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeList(w, recs)
}

// PUT /api/provisioner/websites/{id}/status
func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	var req StatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	rec, err := h.prov.UpdateStatus(r.Context(), id, req.Status, req.PodIPAddress, req.ErrorMessage)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, rec)
}
