package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileBody struct {
	AboutMe *string   `json:"about_me" validate:"omitempty,max=10"`
	Email   *string   `json:"email" validate:"omitempty,email"`
	Specs   *[]string `json:"specializations" validate:"omitempty,dive,max=5"`
}

func decodeString(t *testing.T, body string) (profileBody, error) {
	t.Helper()
	var dst profileBody
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	return dst, Decode(req, &dst)
}

func TestDecode_IgnoresUnknownFields(t *testing.T) {
	got, err := decodeString(t, `{"id":"U1","picture":"x","social_links":[],"about_me":"hi"}`)
	require.NoError(t, err)
	require.NotNil(t, got.AboutMe)
	assert.Equal(t, "hi", *got.AboutMe)
	assert.Nil(t, got.Specs)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := decodeString(t, `{"about_me":`)
	assert.True(t, errors.Is(err, ErrInvalidJSON))

	rec := httptest.NewRecorder()
	WriteDecodeError(rec, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecode_ValidationUsesJSONNames(t *testing.T) {
	_, err := decodeString(t, `{"email":"nope","specializations":["ok","too-long"]}`)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields["email"])
	assert.Equal(t, "max", verr.Fields["specializations[1]"])

	rec := httptest.NewRecorder()
	WriteDecodeError(rec, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
