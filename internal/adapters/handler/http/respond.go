package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ballotbox/api/internal/core/domain"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: kind, Message: message}})
}

// writeDomainError maps domain errors to response statuses. Anything
// unrecognized is logged and surfaced as an opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, domain.ErrPollNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.ErrPollNotFound.Error())
	case errors.Is(err, domain.ErrChoiceNotFound):
		writeError(w, http.StatusNotFound, "not_found", domain.ErrChoiceNotFound.Error())
	case errors.Is(err, domain.ErrPollInactive):
		writeError(w, http.StatusBadRequest, "inactive", domain.ErrPollInactive.Error())
	case errors.Is(err, domain.ErrDuplicateVote):
		writeError(w, http.StatusConflict, "duplicate_vote", domain.ErrDuplicateVote.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden", domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrTransient):
		writeError(w, http.StatusServiceUnavailable, "transient", "temporary failure, retry the request")
	default:
		slog.Error("unhandled service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", domain.ErrInternal.Error())
	}
}
