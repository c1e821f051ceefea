package models

// NotSpecified is the bucket label for absent demographic values. Sessions
// missing a dimension are always counted under it, never dropped.
const NotSpecified = "Not Specified"

// Demographic dimensions used to slice aggregate statistics. DeviceType is
// recorded but not used as a reporting dimension.
const (
	DimensionGender         = "gender"
	DimensionAgeGroup       = "age_group"
	DimensionEducationLevel = "education_level"
)

// Dimensions lists the reporting dimensions in stable order.
var Dimensions = []string{DimensionGender, DimensionAgeGroup, DimensionEducationLevel}

// Demographics holds the optional participant attributes attached when a
// session completes. All fields may be empty.
type Demographics struct {
	Gender         string `json:"gender,omitempty"`
	AgeGroup       string `json:"age_group,omitempty"`
	EducationLevel string `json:"education_level,omitempty"`
	DeviceType     string `json:"device_type,omitempty"`
}

// Label returns the bucket label for the given dimension, substituting
// NotSpecified for absent values. A nil receiver means the session carries no
// demographics at all; every dimension resolves to NotSpecified.
func (d *Demographics) Label(dimension string) string {
	if d == nil {
		return NotSpecified
	}
	var v string
	switch dimension {
	case DimensionGender:
		v = d.Gender
	case DimensionAgeGroup:
		v = d.AgeGroup
	case DimensionEducationLevel:
		v = d.EducationLevel
	}
	if v == "" {
		return NotSpecified
	}
	return v
}
