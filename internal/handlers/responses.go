package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardbank/internal/services"
)

// statusFromError maps the service error taxonomy onto HTTP status
// codes. Anything unrecognized is treated as a store-level failure.
func statusFromError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusServiceUnavailable, "unavailable"
	}
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	code, errorCode := statusFromError(err)
	message := err.Error()
	if code == http.StatusServiceUnavailable {
		message = "Service temporarily unavailable"
	}
	respondWithError(w, code, errorCode, message)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondActionNotAllowed(w http.ResponseWriter) {
	respondWithError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method or action not allowed")
}
