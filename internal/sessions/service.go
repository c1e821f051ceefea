package sessions

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/pkg/queue"
)

// SessionStore abstracts session persistence for the state machine.
type SessionStore interface {
	Insert(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
}

// StudyStore resolves studies owning a session.
type StudyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Study, error)
}

// CatalogStore resolves comparisons and the per-study comparison count.
type CatalogStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comparison, error)
	CountByStudy(ctx context.Context, studyID uuid.UUID) (int, error)
}

// StatsNotifier signals that a study's aggregate statistics went stale.
type StatsNotifier interface {
	EnqueueStatsRefresh(ctx context.Context, payload queue.StatsRefreshPayload) error
}

// Service owns the session lifecycle: creation, answer ingestion with cursor
// advancement, and completion. Sessions move Active → Complete and nothing
// else; there is no abandoned or expired state.
type Service struct {
	sessions SessionStore
	studies  StudyStore
	catalog  CatalogStore
	notifier StatsNotifier // optional
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a session service. notifier may be nil.
func NewService(sessions SessionStore, studies StudyStore, catalog CatalogStore, notifier StatsNotifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions: sessions,
		studies:  studies,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create starts a new session for a study: cursor 0, no responses.
func (s *Service) Create(ctx context.Context, studyID uuid.UUID) (*models.Session, error) {
	if _, err := s.studies.GetByID(ctx, studyID); err != nil {
		return nil, err
	}
	session := &models.Session{
		StudyID:   studyID,
		Responses: []models.Response{},
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddResponse ingests one answer: loads session, comparison and owning study,
// encodes the answer, upserts it by comparison id (a resubmission replaces
// the earlier response), and advances the cursor while it is below the last
// comparison. The write is a compare-and-swap on the session version.
func (s *Service) AddResponse(ctx context.Context, sessionID, comparisonID uuid.UUID, rawAnswer json.RawMessage) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cmp, err := s.catalog.GetByID(ctx, comparisonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.studies.GetByID(ctx, session.StudyID); err != nil {
		return nil, err
	}
	count, err := s.catalog.CountByStudy(ctx, session.StudyID)
	if err != nil {
		return nil, err
	}

	resp, err := EncodeResponse(cmp, rawAnswer)
	if err != nil {
		return nil, err
	}
	session.UpsertResponse(resp)
	if session.CurrentComparisonIndex < count-1 {
		session.CurrentComparisonIndex++
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete seals the session: attaches demographics, sets the completion
// flag and timestamp. Not gated on the cursor — participants may exit early.
// Safe to call again; the flag and demographics are simply rewritten.
func (s *Service) Complete(ctx context.Context, sessionID uuid.UUID, demographics *models.Demographics) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	completedAt := s.now()
	session.Demographics = demographics
	session.IsComplete = true
	session.CompletedAt = &completedAt

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.EnqueueStatsRefresh(ctx, queue.StatsRefreshPayload{StudyID: session.StudyID}); err != nil {
			s.logger.Warn("stats refresh enqueue failed", zap.Error(err), zap.String("study_id", session.StudyID.String()))
		}
	}
	return session, nil
}

// Get loads a session plus the owning study's comparison count, so callers
// can judge completeness (answered vs expected) themselves.
func (s *Service) Get(ctx context.Context, sessionID uuid.UUID) (*models.Session, int, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.catalog.CountByStudy(ctx, session.StudyID)
	if err != nil {
		return nil, 0, err
	}
	return session, count, nil
}
