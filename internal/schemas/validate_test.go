package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreSchema = `{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score": {"type": "integer", "minimum": 0, "maximum": 100}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{"score": 72}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingRequiredField(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{}`)

	require.Error(t, err)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.NotEmpty(t, ve.Errors)
	assert.Contains(t, ve.Error(), "score")
}

func TestValidateJSONString_OutOfRange(t *testing.T) {
	err := ValidateJSONString(scoreSchema, `{"score": 150}`)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": nope}`, `{}`)

	var se *SchemaLoadError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "failed to load schema")
}
