// Package analyzer holds the per-modality image analysis routines.
//
// Analyzers are pure: they read the image bytes, mutate no shared state,
// and return ranked predictions plus free-text recommendations. A failure
// is distinct from a low-confidence result and surfaces as an error.
package analyzer

import (
	"sort"

	"medscan-backend/internal/models"
)

// Result is the output of one analysis run. Predictions are ranked by
// confidence, descending.
type Result struct {
	Predictions     []models.Prediction
	Recommendations []string
}

// Analyzer analyzes one image for a single modality.
type Analyzer interface {
	Analyze(image []byte) (*Result, error)
}

// Registry maps each supported modality to its analyzer. Adding a modality
// means adding a constant in models and an entry here.
type Registry map[models.Modality]Analyzer

// DefaultRegistry returns the registry with the production analyzers.
func DefaultRegistry() Registry {
	return Registry{
		models.ModalityXray:   NewXrayAnalyzer(),
		models.ModalitySkin:   NewSkinAnalyzer(),
		models.ModalityCTScan: NewCTScanAnalyzer(),
	}
}

// For looks up the analyzer for a modality.
func (r Registry) For(m models.Modality) (Analyzer, bool) {
	a, ok := r[m]
	return a, ok
}

// sortByConfidence orders predictions by confidence, descending, keeping
// the original order for equal confidences.
func sortByConfidence(preds []models.Prediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})
}
