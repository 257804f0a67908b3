package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	TripID string  `json:"trip_id" validate:"required,uuid"`
	Diver  string  `json:"diver_id,omitempty" validate:"required,max=4"`
	Notes  *string `validate:"omitempty,max=2"`
}

func TestValidateStruct(t *testing.T) {
	assert.Nil(t, ValidateStruct(sample{TripID: "0b6f1c1e-6a5e-4c1f-9a47-3f7f1d7f3e10", Diver: "d"}))

	long := "abc"
	errs := ValidateStruct(sample{TripID: "x", Diver: "toolong", Notes: &long})
	assert.Equal(t, map[string]string{
		"trip_id":  "Must be a valid UUID",
		"diver_id": "Maximum length is 4",
		"Notes":    "Maximum length is 2",
	}, errs)

	assert.Equal(t, "diver_id: This field is required; trip_id: This field is required",
		FormatValidationErrors(ValidateStruct(sample{})))
}
