package sessions

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

// Repository handles session persistence. Responses and demographics are
// JSONB documents on the session row; the version column backs the
// compare-and-swap write in Save.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a sessions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert creates a new session row with cursor 0 and no responses.
func (r *Repository) Insert(ctx context.Context, s *models.Session) error {
	const q = `INSERT INTO sessions (id, study_id, responses) VALUES (gen_random_uuid(), $1, '[]'::jsonb)
		RETURNING id, started_at, version`
	return r.pool.QueryRow(ctx, q, s.StudyID).Scan(&s.ID, &s.StartedAt, &s.Version)
}

// GetByID returns a session by ID, or models.ErrSessionNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	const q = `SELECT id, study_id, started_at, completed_at, is_complete, current_comparison_index, demographics, responses, version
		FROM sessions WHERE id = $1`
	row := r.pool.QueryRow(ctx, q, id)
	s, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrSessionNotFound
	}
	return s, err
}

// Save writes the mutable session fields with a compare-and-swap on version.
// A zero-row update means another writer won the race (the caller loaded the
// session moments ago, so a vanished row is indistinguishable and treated the
// same); models.ErrSessionConflict is returned and the in-memory session is
// left unchanged.
func (r *Repository) Save(ctx context.Context, s *models.Session) error {
	responses, err := json.Marshal(s.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	var demographics []byte
	if s.Demographics != nil {
		demographics, err = json.Marshal(s.Demographics)
		if err != nil {
			return fmt.Errorf("marshal demographics: %w", err)
		}
	}

	const q = `UPDATE sessions
		SET completed_at = $2, is_complete = $3, current_comparison_index = $4, demographics = $5, responses = $6, version = version + 1
		WHERE id = $1 AND version = $7`
	tag, err := r.pool.Exec(ctx, q, s.ID, s.CompletedAt, s.IsComplete, s.CurrentComparisonIndex, demographics, responses, s.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrSessionConflict
	}
	s.Version++
	return nil
}

// ListByStudy returns every session of a study, oldest first. Used by the
// statistics aggregator; reads only, no locking.
func (r *Repository) ListByStudy(ctx context.Context, studyID uuid.UUID) ([]models.Session, error) {
	const q = `SELECT id, study_id, started_at, completed_at, is_complete, current_comparison_index, demographics, responses, version
		FROM sessions WHERE study_id = $1 ORDER BY started_at ASC`
	rows, err := r.pool.Query(ctx, q, studyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	var demographics, responses []byte
	err := row.Scan(&s.ID, &s.StudyID, &s.StartedAt, &s.CompletedAt, &s.IsComplete, &s.CurrentComparisonIndex, &demographics, &responses, &s.Version)
	if err != nil {
		return nil, err
	}
	if len(demographics) > 0 {
		s.Demographics = &models.Demographics{}
		if err := json.Unmarshal(demographics, s.Demographics); err != nil {
			return nil, fmt.Errorf("unmarshal demographics: %w", err)
		}
	}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &s.Responses); err != nil {
			return nil, fmt.Errorf("unmarshal responses: %w", err)
		}
	}
	if s.Responses == nil {
		s.Responses = []models.Response{}
	}
	return &s, nil
}
