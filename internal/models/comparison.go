package models

import (
	"time"

	"github.com/google/uuid"
)

// ComparisonType identifies how a comparison is answered and how its
// responses are aggregated.
type ComparisonType string

const (
	TypeRating       ComparisonType = "rating"
	TypeSingleSelect ComparisonType = "single-select"
	TypeBinary       ComparisonType = "binary"
	TypeMultiSelect  ComparisonType = "multi-select"
)

// Valid reports whether t is one of the four supported comparison types.
func (t ComparisonType) Valid() bool {
	switch t {
	case TypeRating, TypeSingleSelect, TypeBinary, TypeMultiSelect:
		return true
	}
	return false
}

// Option is one stimulus-bearing choice within a comparison.
type Option struct {
	StimulusID uuid.UUID `json:"stimulus_id"`
	Label      string    `json:"label,omitempty"`
}

// Comparison is one typed question within a study. Options are stored as a
// JSONB document and must be non-empty.
type Comparison struct {
	ID        uuid.UUID      `json:"id"`
	StudyID   uuid.UUID      `json:"study_id"`
	Title     string         `json:"title"`
	Type      ComparisonType `json:"type"`
	Options   []Option       `json:"options"`
	Position  int            `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
}

// OptionLabels returns a stimulus-id → label map for display. Options without
// a label fall back to their stimulus id.
func (c *Comparison) OptionLabels() map[string]string {
	labels := make(map[string]string, len(c.Options))
	for _, o := range c.Options {
		label := o.Label
		if label == "" {
			label = o.StimulusID.String()
		}
		labels[o.StimulusID.String()] = label
	}
	return labels
}
