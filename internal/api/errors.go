// internal/api/errors.go
//
// Error classification at the HTTP edge.
//
// Context
// -------
// Services return plain Go errors.  writeError is the only place they are
// turned into status codes, and the only place an internal error is
// logged with full detail.  Clients never see internal error text.
//
//	*website.ValidationError  → 400, message as-is
//	*service.ConflictError    → 409, message as-is
//	website.ErrNotFound       → 404 "Website not found"
//	*http.MaxBytesError       → 413
//	errBadJSON                → 400 "Invalid JSON body"
//	anything else             → 500 "Internal Server Error"
package api

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/cloudself/internal/requestinfo"
	"github.com/yanizio/cloudself/internal/service"
	"github.com/yanizio/cloudself/internal/website"
)

const (
	msgNotFound = "Website not found"
	msgBadJSON  = "Invalid JSON body"
	msgInternal = "Internal Server Error"
)

var errBadJSON = errors.New(msgBadJSON)

func writeError(w http.ResponseWriter, r *http.Request, log *zap.SugaredLogger, err error) {
	var (
		verr     *website.ValidationError
		conflict *service.ConflictError
		tooBig   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		writeMessage(w, http.StatusBadRequest, verr.Message)
	case errors.As(err, &conflict):
		writeMessage(w, http.StatusConflict, conflict.Error())
	case errors.Is(err, website.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgNotFound)
	case errors.As(err, &tooBig):
		writeMessage(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Request body must be %d bytes or less", tooBig.Limit))
	case errors.Is(err, errBadJSON):
		writeMessage(w, http.StatusBadRequest, msgBadJSON)
	default:
		log.Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestinfo.ID(r.Context()),
			"err", err,
		)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}
