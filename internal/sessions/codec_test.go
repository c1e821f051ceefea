package sessions

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perceptua/backend/internal/models"
)

func makeComparison(t models.ComparisonType) *models.Comparison {
	return &models.Comparison{
		ID:      uuid.New(),
		StudyID: uuid.New(),
		Title:   "Which layout works better?",
		Type:    t,
		Options: []models.Option{
			{StimulusID: uuid.New(), Label: "Layout A"},
			{StimulusID: uuid.New(), Label: "Layout B"},
		},
	}
}

func TestEncodeResponseRating(t *testing.T) {
	cmp := makeComparison(models.TypeRating)
	raw := fmt.Sprintf(`[{"stimulus_id":%q,"rating":4},{"stimulus_id":%q,"rating":2}]`,
		cmp.Options[0].StimulusID, cmp.Options[1].StimulusID)

	resp, err := EncodeResponse(cmp, json.RawMessage(raw))
	require.NoError(t, err)

	assert.Equal(t, models.TypeRating, resp.Type)
	assert.Equal(t, cmp.ID, resp.ComparisonID)
	assert.Equal(t, cmp.Title, resp.ComparisonTitle)
	require.Len(t, resp.Ratings, 2)
	assert.Equal(t, 4, resp.Ratings[0].Rating)
	assert.Empty(t, resp.Flags)
	assert.Empty(t, resp.Selected)
	assert.Nil(t, resp.Selection)
}

func TestEncodeResponseBinary(t *testing.T) {
	cmp := makeComparison(models.TypeBinary)
	raw := fmt.Sprintf(`[{"stimulus_id":%q,"selected":true}]`, cmp.Options[0].StimulusID)

	resp, err := EncodeResponse(cmp, json.RawMessage(raw))
	require.NoError(t, err)

	assert.Equal(t, models.TypeBinary, resp.Type)
	require.Len(t, resp.Flags, 1)
	assert.True(t, resp.Flags[0].Selected)
}

func TestEncodeResponseMultiSelect(t *testing.T) {
	cmp := makeComparison(models.TypeMultiSelect)
	raw := fmt.Sprintf(`[%q,%q]`, cmp.Options[0].StimulusID, cmp.Options[1].StimulusID)

	resp, err := EncodeResponse(cmp, json.RawMessage(raw))
	require.NoError(t, err)

	assert.Equal(t, models.TypeMultiSelect, resp.Type)
	assert.Len(t, resp.Selected, 2)
}

func TestEncodeResponseSingleSelect(t *testing.T) {
	cmp := makeComparison(models.TypeSingleSelect)
	raw := fmt.Sprintf("%q", cmp.Options[1].StimulusID)

	resp, err := EncodeResponse(cmp, json.RawMessage(raw))
	require.NoError(t, err)

	assert.Equal(t, models.TypeSingleSelect, resp.Type)
	require.NotNil(t, resp.Selection)
	assert.Equal(t, cmp.Options[1].StimulusID, *resp.Selection)
}

func TestEncodeResponseShapeMismatch(t *testing.T) {
	ratingCmp := makeComparison(models.TypeRating)
	binaryCmp := makeComparison(models.TypeBinary)
	multiCmp := makeComparison(models.TypeMultiSelect)
	singleCmp := makeComparison(models.TypeSingleSelect)

	id := uuid.New()
	cases := []struct {
		name string
		cmp  *models.Comparison
		raw  string
	}{
		{"single id for rating", ratingCmp, fmt.Sprintf("%q", id)},
		{"missing rating value", ratingCmp, fmt.Sprintf(`[{"stimulus_id":%q}]`, id)},
		{"fractional rating", ratingCmp, fmt.Sprintf(`[{"stimulus_id":%q,"rating":3.5}]`, id)},
		{"empty rating list", ratingCmp, `[]`},
		{"object for binary", binaryCmp, `{"selected":true}`},
		{"missing selected flag", binaryCmp, fmt.Sprintf(`[{"stimulus_id":%q}]`, id)},
		{"object for multi-select", multiCmp, `{"ids":[]}`},
		{"list for single-select", singleCmp, fmt.Sprintf(`[%q]`, id)},
		{"non-uuid single-select", singleCmp, `"not-a-uuid"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeResponse(tc.cmp, json.RawMessage(tc.raw))
			assert.ErrorIs(t, err, models.ErrInvalidPayload)
		})
	}
}

func TestEncodeResponseUnknownComparisonType(t *testing.T) {
	cmp := makeComparison("ranking")
	_, err := EncodeResponse(cmp, json.RawMessage(`[]`))
	assert.ErrorIs(t, err, models.ErrUnknownComparisonType)
}
