package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ooo-portfolio/backend/internal/logging"
	"github.com/ooo-portfolio/backend/internal/repository"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// writeLookupError maps ErrNotFound to 404 and anything else to a logged 500.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	logging.FromContext(r.Context()).Error(msg, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error")
}
