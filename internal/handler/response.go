package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snipshare/internal/apperror"
)

// ErrorResponse is the standard error shape for non-GraphQL endpoints
// (the OAuth routes). GraphQL errors travel in the response's errors
// array instead.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable kind, e.g. "user_not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body — once Encode writes,
// they're on the wire.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error kind to an HTTP status and sends it.
// The service layer returns apperror kinds; only this edge knows about
// status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal_error"

	switch {
	case errors.Is(err, apperror.ErrNotAuthenticated):
		status, kind = http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, apperror.ErrAlreadyAuthenticated):
		status, kind = http.StatusConflict, "already_authenticated"
	case errors.Is(err, apperror.ErrInsufficientRole):
		status, kind = http.StatusForbidden, "insufficient_role"
	case errors.Is(err, apperror.ErrUserNotFound):
		status, kind = http.StatusNotFound, "user_not_found"
	case errors.Is(err, apperror.ErrSnipNotFound):
		status, kind = http.StatusNotFound, "snip_not_found"
	case errors.Is(err, apperror.ErrDuplicateUsername):
		status, kind = http.StatusConflict, "duplicate_username"
	case errors.Is(err, apperror.ErrDuplicateSnipName):
		status, kind = http.StatusConflict, "duplicate_snip_name"
	case errors.Is(err, apperror.ErrInvalidCredentials):
		status, kind = http.StatusUnauthorized, "invalid_credentials"
	}

	message := err.Error()
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	writeJSON(w, status, ErrorResponse{Error: kind, Message: message})
}
