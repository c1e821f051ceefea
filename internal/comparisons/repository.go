package comparisons

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/perceptua/backend/internal/models"
)

// Repository handles comparison persistence. Options travel as a JSONB
// document so the catalog keeps its document-store shape.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a comparisons repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new comparison. Position defaults to the end of the study's order.
func (r *Repository) Create(ctx context.Context, cmp *models.Comparison) error {
	opts, err := json.Marshal(cmp.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	const q = `INSERT INTO comparisons (id, study_id, title, type, options, position)
		VALUES (gen_random_uuid(), $1, $2, $3, $4,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM comparisons WHERE study_id = $1))
		RETURNING id, position, created_at`
	return r.pool.QueryRow(ctx, q, cmp.StudyID, cmp.Title, string(cmp.Type), opts).
		Scan(&cmp.ID, &cmp.Position, &cmp.CreatedAt)
}

// GetByID returns a comparison by ID, or models.ErrComparisonNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comparison, error) {
	const q = `SELECT id, study_id, title, type, options, position, created_at
		FROM comparisons WHERE id = $1`
	var cmp models.Comparison
	var opts []byte
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&cmp.ID, &cmp.StudyID, &cmp.Title, &cmp.Type, &opts, &cmp.Position, &cmp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrComparisonNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(opts, &cmp.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return &cmp, nil
}

// ListByStudy returns a study's comparisons in presentation order.
func (r *Repository) ListByStudy(ctx context.Context, studyID uuid.UUID) ([]models.Comparison, error) {
	const q = `SELECT id, study_id, title, type, options, position, created_at
		FROM comparisons WHERE study_id = $1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, q, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Comparison
	for rows.Next() {
		var cmp models.Comparison
		var opts []byte
		if err := rows.Scan(&cmp.ID, &cmp.StudyID, &cmp.Title, &cmp.Type, &opts, &cmp.Position, &cmp.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(opts, &cmp.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		list = append(list, cmp)
	}
	return list, rows.Err()
}

// CountByStudy returns the number of comparisons in a study.
func (r *Repository) CountByStudy(ctx context.Context, studyID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM comparisons WHERE study_id = $1`
	var n int
	err := r.pool.QueryRow(ctx, q, studyID).Scan(&n)
	return n, err
}
