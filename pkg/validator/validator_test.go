package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required"`
}

func TestDecodeAndValidate_Valid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"rating": 4, "content": "fine"}`))

	var dst sampleRequest
	err := DecodeAndValidate(r, &dst)

	require.NoError(t, err)
	assert.Equal(t, 4, dst.Rating)
}

func TestDecodeAndValidate_UnknownFieldRejected(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"ratting": 4, "content": "fine"}`))

	var dst sampleRequest
	err := DecodeAndValidate(r, &dst)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_FieldMessages(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"rating": 9}`))

	var dst sampleRequest
	err := DecodeAndValidate(r, &dst)

	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "must be at most 5", fields["Rating"])
	assert.Equal(t, "is required", fields["Content"])
}
