package handlers

import (
	"io"
	"net/http"

	"medscan-backend/internal/middleware"
	"medscan-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes bounds how much of an upload is read into memory.
const maxUploadBytes = 32 << 20

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	analysisService *services.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// Submit handles POST /api/analyze/{modality}
func (h *AnalysisHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	modality := chi.URLParam(r, "modality")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "failed to read file", http.StatusBadRequest)
		return
	}

	record, err := h.analysisService.Submit(ctx, modality, header.Filename, header.Header.Get("Content-Type"), image, identity)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", identity.ID).
			Str("modality", modality).
			Msg("Analysis submission failed")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// History handles GET /api/user/history
func (h *AnalysisHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)

	records, err := h.analysisService.History(ctx, identity)
	if err != nil {
		log.Error().Err(err).Str("user_id", identity.ID).Msg("Failed to get history")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GetByID handles GET /api/analysis/{analysis_id}
func (h *AnalysisHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := middleware.GetIdentity(ctx)
	analysisID := chi.URLParam(r, "analysis_id")

	record, err := h.analysisService.GetByID(ctx, analysisID, identity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}
