// Package storage persists uploaded image bytes. Blob persistence is
// best-effort: the analysis pipeline substitutes PlaceholderURL when a
// save fails instead of failing the request.
package storage

import "context"

// PlaceholderURL is the image reference used when a blob save fails.
const PlaceholderURL = "https://images.unsplash.com/photo-1584555684040-bad07f46a21f"

// BlobStore saves image bytes under a caller-chosen unique name and
// returns a reference that can later be served to clients.
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte, contentType string) (string, error)
}
