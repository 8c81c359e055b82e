package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var out Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	out := decode(t, rec)
	assert.True(t, out.Success)
	assert.Nil(t, out.Error)
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "Schedule period not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)

	out := decode(t, rec)
	assert.False(t, out.Success)
	require.NotNil(t, out.Error)
	assert.Equal(t, "NOT_FOUND", out.Error.Code)
	assert.Equal(t, "Schedule period not found", out.Error.Message)
}

func TestValidationErrorCarriesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"email": "Invalid email format"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	out := decode(t, rec)
	require.NotNil(t, out.Error)
	assert.Equal(t, "VALIDATION_ERROR", out.Error.Code)
	assert.Equal(t, "Invalid email format", out.Error.Details["email"])
}
