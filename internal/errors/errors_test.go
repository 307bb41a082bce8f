package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueEntries(t *testing.T) {
	tests := []struct {
		name   string
		err    *APIError
		status int
		typ    string
		code   string
	}{
		{"dataset unavailable", ErrDatasetUnavailable, http.StatusServiceUnavailable, TypeDataNotFound, CodeDatasetUnavailable},
		{"service unavailable", ErrServiceUnavailable, http.StatusServiceUnavailable, TypeServiceDown, CodeServiceUnavailable},
		{"unknown column", UnknownColumnError("Beta"), http.StatusBadRequest, TypeColumnNotFound, CodeUnknownColumn},
		{"not numeric", NotNumericError("Sector"), http.StatusUnprocessableEntity, TypeColumnNotNumeric, CodeNotNumeric},
		{"unknown view", UnknownViewError("pie"), http.StatusNotFound, TypeViewNotFound, CodeUnknownView},
		{"unsupported format", UnsupportedFormatError("xml"), http.StatusBadRequest, TypeUnsupportedFormat, CodeUnsupportedFormat},
		{"view skipped", ViewSkippedError("top-n", "missing column"), http.StatusUnprocessableEntity, TypeViewSkipped, CodeViewSkipped},
		{"validation", NewValidationErrors(nil), http.StatusBadRequest, TypeValidation, CodeValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestAPIErrorMessages(t *testing.T) {
	assert.Equal(t, `column "Beta" is not present in the dataset`, UnknownColumnError("Beta").Error())
	assert.Equal(t, "view top-n skipped: missing column", ViewSkippedError("top-n", "missing column").Error())
}

func TestAPIErrorProblem(t *testing.T) {
	t.Run("validation errors are listed", func(t *testing.T) {
		pd := NewValidationErrors([]ValidationError{
			{Field: "top_n", Message: "top_n must be 50 or less"},
		}).Problem("/api/views/top-n")

		assert.Equal(t, http.StatusBadRequest, pd.Status)
		assert.Equal(t, "/api/views/top-n", pd.Instance)
		assert.Equal(t, "Bad Request", pd.Title)
		assert.Contains(t, pd.Extensions, "errors")
		assert.NotContains(t, pd.Extensions, "details")
	})

	t.Run("other details are kept", func(t *testing.T) {
		pd := UnknownViewError("pie").Problem("")
		assert.Equal(t, "pie", pd.Extensions["details"])
		assert.Equal(t, CodeUnknownView, pd.Extensions["error_code"])
	})

	t.Run("no details", func(t *testing.T) {
		pd := ErrDatasetUnavailable.Problem("")
		assert.NotContains(t, pd.Extensions, "details")
	})
}

func TestProblemDetailsMarshal(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNotFound, "", "gone", "/x").
		WithExtension("request_id", "abc").
		WithExtension("status", 999)

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "Not Found", body["title"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"], "extensions must not replace standard members")
	assert.Equal(t, "gone", body["detail"])
	assert.Equal(t, "abc", body["request_id"])
}

func TestProblemDetailsOmitsEmptyMembers(t *testing.T) {
	data, err := json.Marshal(NewProblemDetails(http.StatusTeapot, "/errors/teapot", "Teapot", "", ""))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "detail")
	assert.NotContains(t, string(data), "instance")
}

func TestProblemDetailsWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout, "", "slow", "").Write(rec))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), `"detail":"slow"`)
}

func TestProblemUnwrapsAPIError(t *testing.T) {
	wrapped := fmt.Errorf("rendering: %w", UnknownViewError("pie"))
	pd := Problem(wrapped, "/charts/pie.png")
	assert.Equal(t, http.StatusNotFound, pd.Status)
	assert.Equal(t, TypeViewNotFound, pd.Type)
}
