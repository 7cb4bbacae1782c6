package analyzer

import "medscan-backend/internal/models"

// SkinAnalyzer is the skin lesion analyzer. It currently returns a fixed
// demo result; the pipeline contract is identical to the model-backed
// analyzers, so swapping in a real classifier is a drop-in change.
type SkinAnalyzer struct{}

// NewSkinAnalyzer creates the skin lesion analyzer.
func NewSkinAnalyzer() *SkinAnalyzer {
	return &SkinAnalyzer{}
}

func (a *SkinAnalyzer) Analyze(_ []byte) (*Result, error) {
	preds := []models.Prediction{
		{Label: "Seborrheic Keratosis", Confidence: 0.75},
		{Label: "Melanoma", Confidence: 0.12},
		{Label: "Basal Cell Carcinoma", Confidence: 0.08},
	}
	sortByConfidence(preds)

	return &Result{
		Predictions: preds,
		Recommendations: []string{
			"Schedule a follow-up with a dermatologist",
			"Protect your skin from sun exposure",
			"Monitor any changes in size, shape, or color of the lesion",
			"Apply prescribed topical treatments as directed",
		},
	}, nil
}
