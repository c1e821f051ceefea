package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/pkg/queue"
)

type stubSessionStore struct {
	byID    map[uuid.UUID]*models.Session
	saveErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{byID: map[uuid.UUID]*models.Session{}}
}

func (s *stubSessionStore) Insert(_ context.Context, sess *models.Session) error {
	sess.ID = uuid.New()
	sess.StartedAt = time.Now().UTC()
	s.byID[sess.ID] = sess
	return nil
}

func (s *stubSessionStore) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	sess, ok := s.byID[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubSessionStore) Save(_ context.Context, sess *models.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	if _, ok := s.byID[sess.ID]; !ok {
		return models.ErrSessionConflict
	}
	sess.Version++
	s.byID[sess.ID] = sess
	return nil
}

type stubStudyStore struct {
	ids map[uuid.UUID]bool
}

func (s *stubStudyStore) GetByID(_ context.Context, id uuid.UUID) (*models.Study, error) {
	if !s.ids[id] {
		return nil, models.ErrStudyNotFound
	}
	return &models.Study{ID: id, Title: "Logo preference"}, nil
}

type stubCatalogStore struct {
	byID   map[uuid.UUID]*models.Comparison
	counts map[uuid.UUID]int
}

func (s *stubCatalogStore) GetByID(_ context.Context, id uuid.UUID) (*models.Comparison, error) {
	cmp, ok := s.byID[id]
	if !ok {
		return nil, models.ErrComparisonNotFound
	}
	return cmp, nil
}

func (s *stubCatalogStore) CountByStudy(_ context.Context, studyID uuid.UUID) (int, error) {
	return s.counts[studyID], nil
}

type stubNotifier struct {
	refreshed []uuid.UUID
}

func (n *stubNotifier) EnqueueStatsRefresh(_ context.Context, p queue.StatsRefreshPayload) error {
	n.refreshed = append(n.refreshed, p.StudyID)
	return nil
}

// fixture wires a service over stub stores with one study of n single-select
// comparisons.
func fixture(t *testing.T, n int) (*Service, uuid.UUID, []*models.Comparison, *stubSessionStore, *stubNotifier) {
	t.Helper()
	studyID := uuid.New()
	catalog := &stubCatalogStore{byID: map[uuid.UUID]*models.Comparison{}, counts: map[uuid.UUID]int{studyID: n}}
	comps := make([]*models.Comparison, 0, n)
	for i := 0; i < n; i++ {
		cmp := makeComparison(models.TypeSingleSelect)
		cmp.StudyID = studyID
		catalog.byID[cmp.ID] = cmp
		comps = append(comps, cmp)
	}
	sessionStore := newStubSessionStore()
	notifier := &stubNotifier{}
	svc := NewService(sessionStore, &stubStudyStore{ids: map[uuid.UUID]bool{studyID: true}}, catalog, notifier, nil)
	return svc, studyID, comps, sessionStore, notifier
}

func answerFor(cmp *models.Comparison) json.RawMessage {
	return json.RawMessage(fmt.Sprintf("%q", cmp.Options[0].StimulusID))
}

func TestCreateSessionInitialState(t *testing.T) {
	svc, studyID, _, store, _ := fixture(t, 3)

	created, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	got, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentComparisonIndex)
	assert.False(t, got.IsComplete)
	assert.Empty(t, got.Responses)
	assert.Nil(t, got.CompletedAt)
}

func TestCreateSessionStudyNotFound(t *testing.T) {
	svc, _, _, _, _ := fixture(t, 1)
	_, err := svc.Create(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrStudyNotFound)
}

func TestAddResponseAdvancesAndCapsCursor(t *testing.T) {
	svc, studyID, comps, _, _ := fixture(t, 3)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	for i, cmp := range comps {
		session, err = svc.AddResponse(context.Background(), session.ID, cmp.ID, answerFor(cmp))
		require.NoError(t, err)
		want := i + 1
		if want > 2 {
			want = 2 // cursor caps at comparisonCount-1, never auto-completes
		}
		assert.Equal(t, want, session.CurrentComparisonIndex)
		assert.False(t, session.IsComplete)
	}
	assert.Len(t, session.Responses, 3)
}

func TestAddResponseReplacesResubmission(t *testing.T) {
	svc, studyID, comps, _, _ := fixture(t, 2)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	cmp := comps[0]
	_, err = svc.AddResponse(context.Background(), session.ID, cmp.ID, answerFor(cmp))
	require.NoError(t, err)

	second := json.RawMessage(fmt.Sprintf("%q", cmp.Options[1].StimulusID))
	session, err = svc.AddResponse(context.Background(), session.ID, cmp.ID, second)
	require.NoError(t, err)

	require.Len(t, session.Responses, 1)
	require.NotNil(t, session.Responses[0].Selection)
	assert.Equal(t, cmp.Options[1].StimulusID, *session.Responses[0].Selection)
}

func TestAddResponseFreezesComparisonTitle(t *testing.T) {
	svc, studyID, comps, _, _ := fixture(t, 1)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	cmp := comps[0]
	session, err = svc.AddResponse(context.Background(), session.ID, cmp.ID, answerFor(cmp))
	require.NoError(t, err)

	title := session.Responses[0].ComparisonTitle
	cmp.Title = "edited afterwards"
	assert.Equal(t, title, session.Responses[0].ComparisonTitle)
}

func TestAddResponseNotFound(t *testing.T) {
	svc, studyID, comps, _, _ := fixture(t, 1)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	_, err = svc.AddResponse(context.Background(), uuid.New(), comps[0].ID, answerFor(comps[0]))
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	_, err = svc.AddResponse(context.Background(), session.ID, uuid.New(), answerFor(comps[0]))
	assert.ErrorIs(t, err, models.ErrComparisonNotFound)
}

func TestAddResponsePropagatesCodecError(t *testing.T) {
	svc, studyID, comps, _, _ := fixture(t, 1)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	_, err = svc.AddResponse(context.Background(), session.ID, comps[0].ID, json.RawMessage(`["not-a-uuid"]`))
	assert.ErrorIs(t, err, models.ErrInvalidPayload)
}

func TestAddResponseSurfacesWriteConflict(t *testing.T) {
	svc, studyID, comps, store, _ := fixture(t, 1)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	store.saveErr = models.ErrSessionConflict
	_, err = svc.AddResponse(context.Background(), session.ID, comps[0].ID, answerFor(comps[0]))
	assert.ErrorIs(t, err, models.ErrSessionConflict)
}

func TestCompleteSealsSessionAtAnyCursor(t *testing.T) {
	svc, studyID, _, _, notifier := fixture(t, 3)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	demo := &models.Demographics{Gender: "female", AgeGroup: "25-34"}
	sealed, err := svc.Complete(context.Background(), session.ID, demo)
	require.NoError(t, err)

	assert.True(t, sealed.IsComplete)
	require.NotNil(t, sealed.CompletedAt)
	require.NotNil(t, sealed.Demographics)
	assert.Equal(t, "female", sealed.Demographics.Gender)
	assert.Equal(t, 0, sealed.CurrentComparisonIndex) // no answers required
	assert.Equal(t, []uuid.UUID{studyID}, notifier.refreshed)

	// Calling again keeps the session complete.
	again, err := svc.Complete(context.Background(), session.ID, demo)
	require.NoError(t, err)
	assert.True(t, again.IsComplete)
}

func TestCompleteSessionNotFound(t *testing.T) {
	svc, _, _, _, _ := fixture(t, 1)
	_, err := svc.Complete(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestGetReturnsComparisonCount(t *testing.T) {
	svc, studyID, comps, _, _ := fixture(t, 2)
	session, err := svc.Create(context.Background(), studyID)
	require.NoError(t, err)

	_, err = svc.AddResponse(context.Background(), session.ID, comps[0].ID, answerFor(comps[0]))
	require.NoError(t, err)

	got, count, err := svc.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, got.Responses, 1)
}
