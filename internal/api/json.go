package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrUnknownZettel):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrNoteAlreadyExists),
		errors.Is(err, apperr.ErrIndexNotFound),
		errors.Is(err, apperr.ErrIndexAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrMalformedFrontmatter):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrUnsupportedSort):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}
