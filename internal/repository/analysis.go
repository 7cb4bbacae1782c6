package repository

import (
	"context"
	"errors"
	"fmt"

	"medscan-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalysisRepository handles database operations for analysis records
type AnalysisRepository struct {
	db *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create creates a new analysis record. Predictions and recommendations
// are stored as jsonb so their ordering survives the round-trip.
func (r *AnalysisRepository) Create(ctx context.Context, record *models.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (id, user_id, modality, image_url, predictions, recommendations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		record.ID, record.UserID, record.Modality.String(), record.ImageURL,
		record.Predictions, record.Recommendations, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis record: %w", err)
	}
	return nil
}

// GetByID retrieves an analysis record by ID
func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	query := `
		SELECT id, user_id, modality, image_url, predictions, recommendations, created_at
		FROM analyses
		WHERE id = $1
	`
	record, err := scanAnalysis(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("failed to get analysis record: %w", err)
	}
	return record, nil
}

// ListByUser retrieves all records owned by a user, most recent first
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string) ([]*models.AnalysisRecord, error) {
	query := `
		SELECT id, user_id, modality, image_url, predictions, recommendations, created_at
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}
	defer rows.Close()

	var records []*models.AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis records: %w", err)
	}

	return records, nil
}

func scanAnalysis(row pgx.Row) (*models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	var modality string
	err := row.Scan(
		&record.ID, &record.UserID, &modality, &record.ImageURL,
		&record.Predictions, &record.Recommendations, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Modality = models.Modality(modality)
	return &record, nil
}
