package handlers

import (
	"net/http"
	"time"

	"medscan-backend/internal/services"
)

// HealthHandler reports liveness and the startup-time store mode
type HealthHandler struct {
	mode services.Mode
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(mode services.Mode) *HealthHandler {
	return &HealthHandler{mode: mode}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"mode":      h.mode.String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
