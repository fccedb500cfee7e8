package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/cloudself/internal/website"
)

// decodeBody reads one JSON object into dst.  Oversized bodies keep their
// *http.MaxBytesError so they map to 413; every other failure is errBadJSON.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

// pathID parses {id}.  Anything that is not a positive integer cannot name
// a record and is reported as website.ErrNotFound.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, website.ErrNotFound
	}
	return id, nil
}
