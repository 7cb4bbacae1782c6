package models

import "time"

// Modality is the class of medical image being analyzed.
type Modality string

const (
	ModalityXray   Modality = "xray"
	ModalitySkin   Modality = "skin"
	ModalityCTScan Modality = "ct-scan"
)

// Modalities lists every supported modality.
var Modalities = []Modality{ModalityXray, ModalitySkin, ModalityCTScan}

// ParseModality maps a request path segment to a Modality.
// The second return value is false for anything outside the closed set.
func ParseModality(s string) (Modality, bool) {
	switch Modality(s) {
	case ModalityXray, ModalitySkin, ModalityCTScan:
		return Modality(s), true
	}
	return "", false
}

func (m Modality) String() string {
	return string(m)
}

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Prediction is a single label/confidence pair produced by an analyzer.
// Confidence is in [0,1]. Ordering inside an AnalysisRecord is significant.
type Prediction struct {
	Label       string  `json:"label"`
	Confidence  float64 `json:"confidence"`
	Description string  `json:"description,omitempty"`
}

// AnalysisRecord represents one completed analysis, owned by a single user
type AnalysisRecord struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	Modality        Modality     `json:"type"`
	ImageURL        string       `json:"image_url"`
	Predictions     []Prediction `json:"predictions"`
	Recommendations []string     `json:"recommendations"`
	CreatedAt       time.Time    `json:"date"`
}
