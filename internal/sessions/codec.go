package sessions

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/perceptua/backend/internal/models"
)

// ratingEntry and flagEntry use pointers so missing fields are
// distinguishable from zero values during validation.
type ratingEntry struct {
	StimulusID *uuid.UUID `json:"stimulus_id"`
	Rating     *int       `json:"rating"`
}

type flagEntry struct {
	StimulusID *uuid.UUID `json:"stimulus_id"`
	Selected   *bool      `json:"selected"`
}

// EncodeResponse validates and normalizes a raw answer payload against the
// comparison's declared type, producing the canonical response record. It is
// pure; the caller persists the result.
//
// Shape mismatches yield models.ErrInvalidPayload; a comparison whose type
// matches none of the four variants yields models.ErrUnknownComparisonType.
// Stimulus ids are not checked for membership in the comparison's options.
func EncodeResponse(cmp *models.Comparison, raw json.RawMessage) (models.Response, error) {
	resp := models.Response{
		ComparisonID:    cmp.ID,
		ComparisonTitle: cmp.Title,
		Type:            cmp.Type,
	}

	switch cmp.Type {
	case models.TypeRating:
		var entries []ratingEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return resp, fmt.Errorf("%w: rating answer must be a list of {stimulus_id, rating}", models.ErrInvalidPayload)
		}
		if len(entries) == 0 {
			return resp, fmt.Errorf("%w: rating answer must not be empty", models.ErrInvalidPayload)
		}
		ratings := make([]models.OptionRating, 0, len(entries))
		for _, e := range entries {
			if e.StimulusID == nil || e.Rating == nil {
				return resp, fmt.Errorf("%w: each rating entry requires stimulus_id and an integer rating", models.ErrInvalidPayload)
			}
			ratings = append(ratings, models.OptionRating{StimulusID: *e.StimulusID, Rating: *e.Rating})
		}
		resp.Ratings = ratings

	case models.TypeBinary:
		var entries []flagEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return resp, fmt.Errorf("%w: binary answer must be a list of {stimulus_id, selected}", models.ErrInvalidPayload)
		}
		if len(entries) == 0 {
			return resp, fmt.Errorf("%w: binary answer must not be empty", models.ErrInvalidPayload)
		}
		flags := make([]models.OptionFlag, 0, len(entries))
		for _, e := range entries {
			if e.StimulusID == nil || e.Selected == nil {
				return resp, fmt.Errorf("%w: each binary entry requires stimulus_id and a boolean selected", models.ErrInvalidPayload)
			}
			flags = append(flags, models.OptionFlag{StimulusID: *e.StimulusID, Selected: *e.Selected})
		}
		resp.Flags = flags

	case models.TypeMultiSelect:
		var ids []uuid.UUID
		if err := json.Unmarshal(raw, &ids); err != nil {
			return resp, fmt.Errorf("%w: multi-select answer must be a list of stimulus ids", models.ErrInvalidPayload)
		}
		resp.Selected = ids

	case models.TypeSingleSelect:
		var id uuid.UUID
		if err := json.Unmarshal(raw, &id); err != nil {
			return resp, fmt.Errorf("%w: single-select answer must be a single stimulus id", models.ErrInvalidPayload)
		}
		resp.Selection = &id

	default:
		return resp, fmt.Errorf("%w: %q", models.ErrUnknownComparisonType, cmp.Type)
	}

	return resp, nil
}
