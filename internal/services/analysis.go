package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"medscan-backend/internal/analyzer"
	"medscan-backend/internal/models"
	"medscan-backend/internal/repository"
	"medscan-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AnalysisRepository is the persistence surface the pipeline needs.
type AnalysisRepository interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
	GetByID(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*models.AnalysisRecord, error)
}

// AnalysisService orchestrates the analysis pipeline: modality dispatch,
// best-effort image persistence, record shaping, and ownership-checked
// retrieval.
type AnalysisService struct {
	analysisRepo AnalysisRepository
	blobs        storage.BlobStore
	analyzers    analyzer.Registry
	mode         Mode
}

// NewAnalysisService creates a new analysis service. analysisRepo may be
// nil in degraded mode; it is never touched on that path.
func NewAnalysisService(analysisRepo AnalysisRepository, blobs storage.BlobStore, analyzers analyzer.Registry, mode Mode) *AnalysisService {
	return &AnalysisService{
		analysisRepo: analysisRepo,
		blobs:        blobs,
		analyzers:    analyzers,
		mode:         mode,
	}
}

// Submit runs one image through the pipeline and returns the resulting
// record. Record persistence is best-effort: when the store is down the
// record is still returned, it just cannot be retrieved later. Blob
// persistence is also best-effort and substitutes a placeholder reference.
func (s *AnalysisService) Submit(ctx context.Context, modality, filename, contentType string, image []byte, identity *models.User) (*models.AnalysisRecord, error) {
	mod, ok := models.ParseModality(modality)
	if !ok {
		return nil, ErrUnsupportedModality
	}

	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrInvalidUpload
	}

	a, ok := s.analyzers.For(mod)
	if !ok {
		return nil, ErrUnsupportedModality
	}

	result, err := a.Analyze(image)
	if err != nil {
		return nil, &AnalysisError{Modality: mod.String(), Err: err}
	}

	imageURL := s.saveImage(ctx, filename, contentType, image)

	record := &models.AnalysisRecord{
		ID:              uuid.New().String(),
		UserID:          identity.ID,
		Modality:        mod,
		ImageURL:        imageURL,
		Predictions:     rankPredictions(result.Predictions),
		Recommendations: result.Recommendations,
		CreatedAt:       time.Now().UTC(),
	}

	if s.mode == ModeNormal {
		if err := s.analysisRepo.Create(ctx, record); err != nil {
			log.Error().Err(err).Str("analysis_id", record.ID).Msg("Failed to store analysis record")
		}
	}

	log.Info().
		Str("analysis_id", record.ID).
		Str("user_id", identity.ID).
		Str("modality", mod.String()).
		Msg("Analysis completed")

	return record, nil
}

// History returns all records owned by the identity, most recent first.
// Unlike submission, history has no degraded-mode fallback.
func (s *AnalysisService) History(ctx context.Context, identity *models.User) ([]*models.AnalysisRecord, error) {
	if s.mode == ModeDegraded {
		return nil, ErrStoreUnavailable
	}

	records, err := s.analysisRepo.ListByUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if records == nil {
		records = []*models.AnalysisRecord{}
	}
	return records, nil
}

// GetByID returns a single record. The ownership check runs before any
// field of the record is exposed to the caller.
func (s *AnalysisService) GetByID(ctx context.Context, id string, identity *models.User) (*models.AnalysisRecord, error) {
	if s.mode == ModeDegraded {
		return nil, ErrStoreUnavailable
	}

	record, err := s.analysisRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if record.UserID != identity.ID {
		return nil, ErrForbidden
	}

	return record, nil
}

// saveImage persists the upload under a fresh unique name. Failure is
// non-fatal: the placeholder reference is substituted instead.
func (s *AnalysisService) saveImage(ctx context.Context, filename, contentType string, image []byte) string {
	name := uuid.New().String() + uploadExt(filename)
	url, err := s.blobs.Save(ctx, name, image, contentType)
	if err != nil {
		log.Error().Err(err).Str("object", name).Msg("Failed to save image, using placeholder")
		return storage.PlaceholderURL
	}
	return url
}

// uploadExt extracts a file extension from the upload's name, defaulting
// to .jpg.
func uploadExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return ext
}

// rankPredictions returns a copy sorted by confidence descending. The
// analyzers already sort their output; the pipeline owns the invariant
// and never trusts them to.
func rankPredictions(preds []models.Prediction) []models.Prediction {
	ranked := make([]models.Prediction, len(preds))
	copy(ranked, preds)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked
}
