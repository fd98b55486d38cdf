package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecomlens/internal/analytics"
	"ecomlens/internal/store"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(os.Stderr, nil)), false)
}

func TestErrorToProblem(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/rfm", nil)

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "invalid parameter",
			err:            &analytics.InvalidParameterError{Param: "k", Value: 12, Min: 2, Max: 8},
			expectedStatus: http.StatusBadRequest,
			expectedType:   TypeInvalidParameter,
		},
		{
			name:           "insufficient data",
			err:            &analytics.InsufficientDataError{Customers: 2, Required: 4},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   TypeInsufficientData,
		},
		{
			name:           "insufficient history",
			err:            &analytics.InsufficientHistoryError{Days: 1, Required: 2},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedType:   TypeInsufficientHistory,
		},
		{
			name:           "schema error",
			err:            &analytics.SchemaError{Column: "amount", Reason: "missing"},
			expectedStatus: http.StatusBadRequest,
			expectedType:   TypeSchema,
		},
		{
			name:           "wrapped engine error",
			err:            fmt.Errorf("segmenting: %w", &analytics.InvalidParameterError{Param: "k", Value: 0, Min: 2, Max: 8}),
			expectedStatus: http.StatusBadRequest,
			expectedType:   TypeInvalidParameter,
		},
		{
			name:           "ledger not loaded",
			err:            store.ErrNotLoaded,
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   TypeDataLoad,
		},
		{
			name:           "context cancelled",
			err:            context.Canceled,
			expectedStatus: http.StatusGatewayTimeout,
			expectedType:   TypeTimeout,
		},
		{
			name:           "api error",
			err:            ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedType:   TypeNotFound,
		},
		{
			name:           "unknown error",
			err:            fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.expectedStatus, problem.Status)
			assert.Equal(t, tt.expectedType, problem.Type)
			assert.Equal(t, "/api/rfm", problem.Instance)
		})
	}
}

func TestHandleErrorWritesProblemJSON(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/api/forecast", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, &analytics.InsufficientHistoryError{Days: 1, Required: 2})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeInsufficientHistory, body["type"])
	assert.EqualValues(t, http.StatusUnprocessableEntity, body["status"])
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(400, TypeValidation, "Validation Failed", "bad input", "/api/kpi").
		WithExtension("parameter", "days")

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "days", body["parameter"])
	assert.Equal(t, "Validation Failed", body["title"])
}
