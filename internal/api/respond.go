// internal/api/respond.go
//
// JSON envelope helpers.
//
// Every response body has the same outer shape:
//
//	{"success": true,  "data": …, "count": N}   // count only for lists
//	{"success": false, "error": {"message": "…"}}
//
// Notes
// -----
//   - Encoding errors after the header is written can only be logged.
//   - Oxford commas, two spaces after periods.
package api

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Count   *int       `json:"count,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Warnw("response encode failed", "status", status, "err", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: items, Count: &n})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: &errorBody{Message: msg}})
}
