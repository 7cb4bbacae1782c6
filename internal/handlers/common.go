package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"medscan-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondServiceError maps a service error to its HTTP status. Anything
// outside the client-facing taxonomy becomes an opaque 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var analysisErr *services.AnalysisError

	switch {
	case errors.Is(err, services.ErrDuplicateEmail):
		respondError(w, services.ErrDuplicateEmail.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(w, services.ErrInvalidCredentials.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrUnsupportedModality):
		respondError(w, services.ErrUnsupportedModality.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrInvalidUpload):
		respondError(w, services.ErrInvalidUpload.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, services.ErrNotFound.Error(), http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		respondError(w, services.ErrForbidden.Error(), http.StatusForbidden)
	case errors.Is(err, services.ErrStoreUnavailable):
		respondError(w, services.ErrStoreUnavailable.Error(), http.StatusServiceUnavailable)
	case errors.As(err, &analysisErr):
		respondError(w, analysisErr.Error(), http.StatusInternalServerError)
	default:
		respondError(w, "internal server error", http.StatusInternalServerError)
	}
}
