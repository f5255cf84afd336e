package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HACKWAVE2025/B48-sub000/internal/coordinator"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeRejection maps a coordinator rejection to an HTTP status. The body
// carries the taxonomy code and the rejection text, nothing internal.
func writeRejection(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, coordinator.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, coordinator.ErrAlreadyExists),
		errors.Is(err, coordinator.ErrNotJoinable),
		errors.Is(err, coordinator.ErrAlreadyMember),
		errors.Is(err, coordinator.ErrDuplicateSubmission):
		status = http.StatusConflict
	case errors.Is(err, coordinator.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, coordinator.ErrInvalidState),
		errors.Is(err, coordinator.ErrNoContent),
		errors.Is(err, coordinator.ErrNotMember):
		status = http.StatusUnprocessableEntity
	}
	writeError(w, status, coordinator.CodeOf(err), err.Error())
}
