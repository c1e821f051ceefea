package stats

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/perceptua/backend/internal/models"
)

// Accumulator is the type-shaped counter behind a response distribution
// bucket. Each comparison type has its own concrete shape.
type Accumulator interface {
	add(r *models.Response)
}

// BinaryCounts tallies yes/no answers. Binary comparisons are single-option
// questions as far as aggregation is concerned: only the first entry's
// selected flag is read.
type BinaryCounts struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

func (b *BinaryCounts) add(r *models.Response) {
	if len(r.Flags) == 0 {
		return
	}
	if r.Flags[0].Selected {
		b.Yes++
	} else {
		b.No++
	}
}

// RatingCounts tallies star ratings, keyed "1".."5". Only the first entry is
// read (same single-option policy as BinaryCounts); a zero rating falls back
// to the neutral 3.
type RatingCounts struct {
	Ratings map[string]int `json:"ratings"`
}

func (rc *RatingCounts) add(r *models.Response) {
	if len(r.Ratings) == 0 {
		return
	}
	v := r.Ratings[0].Rating
	if v == 0 {
		v = 3
	}
	rc.Ratings[strconv.Itoa(v)]++
}

// MultiSelectCounts tallies one increment per selected stimulus id.
type MultiSelectCounts struct {
	Selections map[string]int `json:"selections"`
}

func (m *MultiSelectCounts) add(r *models.Response) {
	for _, id := range r.Selected {
		m.Selections[id.String()]++
	}
}

// SingleSelectCounts tallies the chosen stimulus id.
type SingleSelectCounts struct {
	Selection map[string]int `json:"selection"`
}

func (s *SingleSelectCounts) add(r *models.Response) {
	if r.Selection == nil {
		return
	}
	s.Selection[r.Selection.String()]++
}

// newAccumulator returns the empty accumulator for a comparison type, or nil
// for an unknown type. Rating maps are pre-seeded with all five stars so
// zero-count stars still appear in output.
func newAccumulator(t models.ComparisonType) Accumulator {
	switch t {
	case models.TypeBinary:
		return &BinaryCounts{}
	case models.TypeRating:
		ratings := make(map[string]int, 5)
		for star := 1; star <= 5; star++ {
			ratings[strconv.Itoa(star)] = 0
		}
		return &RatingCounts{Ratings: ratings}
	case models.TypeMultiSelect:
		return &MultiSelectCounts{Selections: map[string]int{}}
	case models.TypeSingleSelect:
		return &SingleSelectCounts{Selection: map[string]int{}}
	}
	return nil
}

// ComparisonStats is the per-comparison slice of an aggregate report.
type ComparisonStats struct {
	ComparisonID uuid.UUID             `json:"comparison_id"`
	Title        string                `json:"title"`
	Type         models.ComparisonType `json:"type"`

	// ResponseCount is the number of completed sessions holding a response
	// for this comparison.
	ResponseCount int `json:"response_count"`

	// DemographicBreakdown maps dimension → label → respondent count,
	// scoped to this comparison's respondents.
	DemographicBreakdown map[string]map[string]int `json:"demographic_breakdown"`

	// ResponseDistribution maps dimension → label → type-shaped counts.
	// Consumers pick the dimension of interest.
	ResponseDistribution map[string]map[string]Accumulator `json:"response_distribution"`

	// Overall is the all-respondents accumulator, independent of any
	// demographic slicing.
	Overall Accumulator `json:"overall"`
}

// DurationSummary describes how long completed sessions took.
type DurationSummary struct {
	MeanSeconds   float64 `json:"mean_seconds"`
	MedianSeconds float64 `json:"median_seconds"`
	P90Seconds    float64 `json:"p90_seconds"`
}

// AggregateStats is the derived, never-persisted statistics report for one
// study. Counts are non-negative integers; percentages are a presentation
// concern left to the formatter.
type AggregateStats struct {
	StudyID            uuid.UUID `json:"study_id"`
	TotalSessions      int       `json:"total_sessions"`
	CompletedSessions  int       `json:"completed_sessions"`
	IncompleteSessions int       `json:"incomplete_sessions"`

	// DemographicData maps dimension → label → count over completed sessions.
	DemographicData map[string]map[string]int `json:"demographic_data"`

	ComparisonStats  []ComparisonStats `json:"comparison_stats"`
	SessionDurations *DurationSummary  `json:"session_durations,omitempty"`
	ComputedAt       time.Time         `json:"computed_at"`
}
