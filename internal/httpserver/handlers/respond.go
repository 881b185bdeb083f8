package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eterea/eterea/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// statusFor maps domain sentinels onto HTTP statuses. Transient lock
// contention is a 503 so the UI retries; a file we cannot make sense of is
// the client's problem, not ours.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrStorageBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrUnrecognizedFormat):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrStorageIO):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
