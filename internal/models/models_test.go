package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonTypeValid(t *testing.T) {
	for _, typ := range []ComparisonType{TypeRating, TypeSingleSelect, TypeBinary, TypeMultiSelect} {
		assert.True(t, typ.Valid(), string(typ))
	}
	assert.False(t, ComparisonType("ranking").Valid())
	assert.False(t, ComparisonType("").Valid())
}

func TestDemographicsLabel(t *testing.T) {
	var nilDemo *Demographics
	for _, dim := range Dimensions {
		assert.Equal(t, NotSpecified, nilDemo.Label(dim))
	}

	demo := &Demographics{Gender: "female"}
	assert.Equal(t, "female", demo.Label(DimensionGender))
	assert.Equal(t, NotSpecified, demo.Label(DimensionAgeGroup))
	assert.Equal(t, NotSpecified, demo.Label(DimensionEducationLevel))
}

func TestSessionUpsertResponse(t *testing.T) {
	comparisonID := uuid.New()
	first, second := uuid.New(), uuid.New()

	s := &Session{}
	s.UpsertResponse(Response{ComparisonID: comparisonID, Type: TypeSingleSelect, Selection: &first})
	require.Len(t, s.Responses, 1)

	s.UpsertResponse(Response{ComparisonID: comparisonID, Type: TypeSingleSelect, Selection: &second})
	require.Len(t, s.Responses, 1)
	assert.Equal(t, second, *s.Responses[0].Selection)

	s.UpsertResponse(Response{ComparisonID: uuid.New(), Type: TypeBinary})
	assert.Len(t, s.Responses, 2)
}

func TestSessionResponseFor(t *testing.T) {
	comparisonID := uuid.New()
	s := &Session{Responses: []Response{{ComparisonID: comparisonID, Type: TypeBinary}}}

	require.NotNil(t, s.ResponseFor(comparisonID))
	assert.Nil(t, s.ResponseFor(uuid.New()))
}

func TestComparisonOptionLabels(t *testing.T) {
	labeled, bare := uuid.New(), uuid.New()
	cmp := &Comparison{Options: []Option{
		{StimulusID: labeled, Label: "Layout A"},
		{StimulusID: bare},
	}}

	labels := cmp.OptionLabels()
	assert.Equal(t, "Layout A", labels[labeled.String()])
	assert.Equal(t, bare.String(), labels[bare.String()])
}
