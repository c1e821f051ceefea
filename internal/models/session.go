package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one participant's run through a study. Responses and
// demographics live as JSONB documents on the session row; Version backs the
// compare-and-swap writes that guard concurrent mutation.
type Session struct {
	ID                     uuid.UUID     `json:"id"`
	StudyID                uuid.UUID     `json:"study_id"`
	StartedAt              time.Time     `json:"started_at"`
	CompletedAt            *time.Time    `json:"completed_at,omitempty"`
	IsComplete             bool          `json:"is_complete"`
	CurrentComparisonIndex int           `json:"current_comparison_index"`
	Demographics           *Demographics `json:"demographics,omitempty"`
	Responses              []Response    `json:"responses"`
	Version                int           `json:"-"`
}

// ResponseFor returns the session's response to the given comparison, or nil.
// Sessions hold at most one response per comparison.
func (s *Session) ResponseFor(comparisonID uuid.UUID) *Response {
	for i := range s.Responses {
		if s.Responses[i].ComparisonID == comparisonID {
			return &s.Responses[i]
		}
	}
	return nil
}

// UpsertResponse replaces the session's response to the same comparison, or
// appends when none exists yet. Resubmissions overwrite rather than
// accumulate.
func (s *Session) UpsertResponse(r Response) {
	for i := range s.Responses {
		if s.Responses[i].ComparisonID == r.ComparisonID {
			s.Responses[i] = r
			return
		}
	}
	s.Responses = append(s.Responses, r)
}
