package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/UkrCIH/vACC-Ukraine-Slot-Tool/internal"
)

const (
	msgUnauthorized    = "Unauthorized"
	msgInvalidPassword = "Invalid password"
	msgUpstream        = "Failed to fetch VATSIM data"
	msgInternal        = "Internal server error"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// respondJSON writes data as a JSON response.
func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// respondError maps an error kind onto its status code and writes the failure body.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	}

	respondJSON(w, logger, status, errorResponse{Success: false, Message: message})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, internal.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, internal.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, internal.ErrUnauthorized):
		return http.StatusUnauthorized, msgUnauthorized
	case errors.Is(err, internal.ErrUpstreamUnavailable):
		return http.StatusInternalServerError, msgUpstream
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
