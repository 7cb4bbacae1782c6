package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateEmail indicates a registration with an already-used email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnsupportedModality indicates a submission for an unknown image type.
	ErrUnsupportedModality = errors.New("unsupported modality")
	// ErrInvalidUpload indicates the upload did not declare an image content type.
	ErrInvalidUpload = errors.New("file must be an image")
	// ErrStoreUnavailable indicates the durable store cannot serve the request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller does not own the resource.
	ErrForbidden = errors.New("not authorized to access this analysis")
)

// AnalysisError wraps an analyzer failure with its modality.
type AnalysisError struct {
	Modality string
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed for %s: %v", e.Modality, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
