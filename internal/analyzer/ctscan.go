package analyzer

import "medscan-backend/internal/models"

// CTScanAnalyzer is the CT scan analyzer. Like the skin analyzer it returns
// a fixed demo result behind the common analyzer contract.
type CTScanAnalyzer struct{}

// NewCTScanAnalyzer creates the CT scan analyzer.
func NewCTScanAnalyzer() *CTScanAnalyzer {
	return &CTScanAnalyzer{}
}

func (a *CTScanAnalyzer) Analyze(_ []byte) (*Result, error) {
	preds := []models.Prediction{
		{Label: "Normal Findings", Confidence: 0.82},
		{Label: "Mild Atrophy", Confidence: 0.15},
		{Label: "Cerebral Edema", Confidence: 0.03},
	}
	sortByConfidence(preds)

	return &Result{
		Predictions: preds,
		Recommendations: []string{
			"Regular follow-up with your neurologist",
			"Maintain consistent sleep schedule",
			"Stay hydrated and maintain a balanced diet",
			"Report any new or worsening symptoms immediately",
		},
	}, nil
}
