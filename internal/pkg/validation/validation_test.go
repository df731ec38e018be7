package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name   string `json:"name" validate:"notblank"`
	Weight int    `json:"weight" validate:"min=1,max=10"`
}

type payload struct {
	Title string `json:"title" validate:"min=3"`
	Items []item `json:"items" validate:"min=1,dive"`
}

func TestStruct_ReportsJSONFieldPaths(t *testing.T) {
	err := Struct(payload{Title: "ab", Items: []item{{Name: "  ", Weight: 11}}})
	require.Error(t, err)

	ve, ok := IsValidationError(err)
	require.True(t, ok)

	assert.ElementsMatch(t, []FieldError{
		{Field: "title", Rule: "min", Param: "3"},
		{Field: "items[0].name", Rule: "notblank"},
		{Field: "items[0].weight", Rule: "max", Param: "10"},
	}, ve.Fields)
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(payload{Title: "abc", Items: []item{{Name: "Go", Weight: 5}}}))
}
