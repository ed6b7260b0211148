//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"detail"`
	RequestID string `json:"requestId"`
}

// Fields returns the distinct violation fields, sorted.
func (b ErrorBody) Fields() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, d := range b.Detail {
		if _, ok := seen[d.Field]; ok {
			continue
		}
		seen[d.Field] = struct{}{}
		out = append(out, d.Field)
	}
	sort.Strings(out)
	return out
}

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) ErrorBody {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String()))

	var errorResponse ErrorBody
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedErrorMsg != "" {
		assert.Contains(t, errorResponse.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
	return errorResponse
}

// AssertValidationResponse expects a 422 whose detail names exactly the given fields.
func AssertValidationResponse(t *testing.T, w *httptest.ResponseRecorder, expectedFields ...string) ErrorBody {
	t.Helper()

	body := AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "")
	require.NotEmpty(t, body.Detail, "validation response should carry field details: %s", w.Body.String())

	sort.Strings(expectedFields)
	assert.Equal(t, expectedFields, body.Fields())
	return body
}
