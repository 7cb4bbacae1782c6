package handlers

import (
	"encoding/json"
	"net/http"

	"medscan-backend/internal/middleware"
	"medscan-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles profile HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UpdateProfileRequest is the PUT /api/user/profile body
type UpdateProfileRequest struct {
	Name string `json:"name"`
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	respondJSON(w, http.StatusOK, identity)
}

// UpdateProfile handles PUT /api/user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.UpdateProfile(ctx, identity, req.Name)
	if err != nil {
		log.Error().Err(err).Str("user_id", identity.ID).Msg("Failed to update profile")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
