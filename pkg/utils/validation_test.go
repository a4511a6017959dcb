package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title    string   `validate:"required,max=5"`
	Language string   `validate:"omitempty,oneof=javascript python"`
	IDs      []string `validate:"required,min=1,dive,required"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(sample{Title: "ok", IDs: []string{"a"}}))

	err := ValidateStruct(sample{Language: "cobol"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "language must be one of: javascript python")
	assert.Contains(t, err.Error(), "ids is required")

	err = ValidateStruct(sample{Title: "too long", IDs: []string{"a"}})
	assert.EqualError(t, err, "title must be at most 5")
}
