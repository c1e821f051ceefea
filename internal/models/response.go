package models

import "github.com/google/uuid"

// OptionRating is one per-option entry of a rating response.
type OptionRating struct {
	StimulusID uuid.UUID `json:"stimulus_id"`
	Rating     int       `json:"rating"`
}

// OptionFlag is one per-option entry of a binary response.
type OptionFlag struct {
	StimulusID uuid.UUID `json:"stimulus_id"`
	Selected   bool      `json:"selected"`
}

// Response is one answer to one comparison, tagged by the comparison's type.
// Exactly one variant field is populated, matching Type. ComparisonTitle is a
// denormalized copy frozen at answer time so historical sessions keep their
// wording even if the comparison is later edited.
type Response struct {
	ComparisonID    uuid.UUID      `json:"comparison_id"`
	ComparisonTitle string         `json:"comparison_title"`
	Type            ComparisonType `json:"type"`

	Ratings   []OptionRating `json:"ratings,omitempty"`    // rating
	Flags     []OptionFlag   `json:"flags,omitempty"`      // binary
	Selected  []uuid.UUID    `json:"selected,omitempty"`   // multi-select
	Selection *uuid.UUID     `json:"selection,omitempty"`  // single-select
}
