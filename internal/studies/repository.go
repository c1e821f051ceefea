package studies

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/perceptua/backend/internal/models"
)

// Repository handles study persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a studies repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new study.
func (r *Repository) Create(ctx context.Context, s *models.Study) error {
	const q = `INSERT INTO studies (id, title, description)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, s.Title, s.Description).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID returns a study by ID, or models.ErrStudyNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Study, error) {
	const q = `SELECT id, title, description, created_at, updated_at FROM studies WHERE id = $1`
	var s models.Study
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&s.ID, &s.Title, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrStudyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all studies, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Study, error) {
	const q = `SELECT id, title, description, created_at, updated_at FROM studies ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Study
	for rows.Next() {
		var s models.Study
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update updates study title and description.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, title, description string, updatedAt *time.Time) error {
	const q = `UPDATE studies SET title = $1, description = $2, updated_at = COALESCE($3, NOW()) WHERE id = $4`
	tag, err := r.pool.Exec(ctx, q, title, description, updatedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStudyNotFound
	}
	return nil
}

// Delete removes a study; comparisons and sessions cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM studies WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrStudyNotFound
	}
	return nil
}
