package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/perceptua/backend/internal/models"
)

// StudyStore resolves the study under aggregation.
type StudyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Study, error)
}

// CatalogStore lists a study's comparisons in order.
type CatalogStore interface {
	ListByStudy(ctx context.Context, studyID uuid.UUID) ([]models.Comparison, error)
}

// SessionStore lists every session of a study.
type SessionStore interface {
	ListByStudy(ctx context.Context, studyID uuid.UUID) ([]models.Session, error)
}

// Aggregator computes demographic-segmented response distributions for a
// study. It only reads; it may run concurrently with session writes at the
// cost of eventually-consistent counts.
type Aggregator struct {
	studies  StudyStore
	catalog  CatalogStore
	sessions SessionStore
}

// NewAggregator creates a statistics aggregator.
func NewAggregator(studies StudyStore, catalog CatalogStore, sessions SessionStore) *Aggregator {
	return &Aggregator{studies: studies, catalog: catalog, sessions: sessions}
}

// Compute scans all sessions of a study and assembles the aggregate report:
// completion counts, per-dimension demographic fan-out over completed
// sessions, and per-comparison typed response distributions built in a
// single pass over each comparison's respondents.
func (a *Aggregator) Compute(ctx context.Context, studyID uuid.UUID) (*AggregateStats, error) {
	if _, err := a.studies.GetByID(ctx, studyID); err != nil {
		return nil, err
	}
	sessions, err := a.sessions.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}
	comparisons, err := a.catalog.ListByStudy(ctx, studyID)
	if err != nil {
		return nil, err
	}

	completed := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.IsComplete {
			completed = append(completed, s)
		}
	}

	out := &AggregateStats{
		StudyID:            studyID,
		TotalSessions:      len(sessions),
		CompletedSessions:  len(completed),
		IncompleteSessions: len(sessions) - len(completed),
		DemographicData:    demographicCounts(completed),
		ComparisonStats:    make([]ComparisonStats, 0, len(comparisons)),
		SessionDurations:   durationSummary(completed),
		ComputedAt:         time.Now().UTC(),
	}

	for _, cmp := range comparisons {
		out.ComparisonStats = append(out.ComparisonStats, comparisonStats(cmp, completed))
	}
	return out, nil
}

// demographicCounts fans completed sessions out over the three reporting
// dimensions independently. Absent values land in the "Not Specified"
// bucket, never outside the totals.
func demographicCounts(completed []models.Session) map[string]map[string]int {
	counts := make(map[string]map[string]int, len(models.Dimensions))
	for _, dim := range models.Dimensions {
		counts[dim] = map[string]int{}
	}
	for _, s := range completed {
		for _, dim := range models.Dimensions {
			counts[dim][s.Demographics.Label(dim)]++
		}
	}
	return counts
}

// comparisonStats restricts completed sessions to those that answered the
// comparison and accumulates breakdown plus distribution in one pass.
func comparisonStats(cmp models.Comparison, completed []models.Session) ComparisonStats {
	cs := ComparisonStats{
		ComparisonID:         cmp.ID,
		Title:                cmp.Title,
		Type:                 cmp.Type,
		DemographicBreakdown: map[string]map[string]int{},
		ResponseDistribution: map[string]map[string]Accumulator{},
		Overall:              newAccumulator(cmp.Type),
	}
	for _, dim := range models.Dimensions {
		cs.DemographicBreakdown[dim] = map[string]int{}
		cs.ResponseDistribution[dim] = map[string]Accumulator{}
	}

	for i := range completed {
		s := &completed[i]
		resp := s.ResponseFor(cmp.ID)
		if resp == nil {
			continue
		}
		cs.ResponseCount++
		if cs.Overall != nil {
			cs.Overall.add(resp)
		}
		for _, dim := range models.Dimensions {
			label := s.Demographics.Label(dim)
			cs.DemographicBreakdown[dim][label]++
			acc := cs.ResponseDistribution[dim][label]
			if acc == nil {
				acc = newAccumulator(cmp.Type)
				if acc == nil {
					continue // unknown comparison type; counts only
				}
				cs.ResponseDistribution[dim][label] = acc
			}
			acc.add(resp)
		}
	}
	return cs
}

// durationSummary reports mean/median/p90 time-to-complete over completed
// sessions. Returns nil when no session carries a completion timestamp.
func durationSummary(completed []models.Session) *DurationSummary {
	seconds := make([]float64, 0, len(completed))
	for _, s := range completed {
		if s.CompletedAt == nil {
			continue
		}
		if d := s.CompletedAt.Sub(s.StartedAt).Seconds(); d >= 0 {
			seconds = append(seconds, d)
		}
	}
	if len(seconds) == 0 {
		return nil
	}
	mean, err := stats.Mean(seconds)
	if err != nil {
		return nil
	}
	median, err := stats.Median(seconds)
	if err != nil {
		return nil
	}
	p90, err := stats.Percentile(seconds, 90)
	if err != nil {
		p90 = median
	}
	return &DurationSummary{MeanSeconds: mean, MedianSeconds: median, P90Seconds: p90}
}
