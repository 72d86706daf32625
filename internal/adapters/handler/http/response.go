package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clipstream/api/internal/core/domain"
)

type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// respondError maps domain sentinels to status codes and never leaks
// internal error detail to the client.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, domain.ErrMissingCredentials),
		errors.Is(err, domain.ErrMissingFields),
		errors.Is(err, domain.ErrMissingHandle),
		errors.Is(err, domain.ErrAvatarRequired),
		errors.Is(err, domain.ErrSelfSubscribe):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrDuplicateUser):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrChannelNotFound),
		errors.Is(err, domain.ErrVideoNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenMismatch):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, domain.ErrAvatarUpload),
		errors.Is(err, domain.ErrUserPersist):
		status = http.StatusInternalServerError
		message = err.Error()
	default:
		slog.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
	})
}
