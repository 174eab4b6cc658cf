package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tmarwah/shopline-api/pkg/errors"
)

func TestHealthCheckEnvelope(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	s.healthCheckHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Error)
}

func TestRespondWithAppErrorMapsStatus(t *testing.T) {
	s := newTestServer()

	cases := []struct {
		err      error
		wantCode int
		wantBody string
	}{
		// 404 applies to the read path; mutations go through
		// respondWithMutationError instead
		{apperrors.NewNotFoundError("Order not found: ord-1"), http.StatusNotFound, "Order not found: ord-1"},
		{apperrors.NewInvalidTransitionError("Invalid status transition from DELIVERED to PENDING"), http.StatusBadRequest, "Invalid status transition"},
		{apperrors.NewUnauthorizedError("Invalid username or password"), http.StatusUnauthorized, "Invalid username or password"},
		{apperrors.NewConflictError("Username is already taken!"), http.StatusConflict, "already taken"},
		// raw errors never leak their message
		{assert.AnError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		s.respondWithAppError(rec, tc.err)

		assert.Equal(t, tc.wantCode, rec.Code)
		assert.Contains(t, rec.Body.String(), tc.wantBody)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	}
}

func TestRespondWithMutationErrorDemotesNotFound(t *testing.T) {
	s := newTestServer()

	rec := httptest.NewRecorder()
	s.respondWithMutationError(rec, apperrors.NewNotFoundError("Order not found: ord-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order not found: ord-1")

	// everything else keeps its mapped status
	rec = httptest.NewRecorder()
	s.respondWithMutationError(rec, apperrors.NewInvalidTransitionError("Invalid status transition from DELIVERED to PENDING"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	s.respondWithMutationError(rec, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestParseTimeParam(t *testing.T) {
	got, err := parseTimeParam("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseTimeParam("2026-08-27T10:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 8, 27, 10, 30, 0, 0, time.UTC), got.UTC())

	_, err = parseTimeParam("27/08/2026")
	assert.Error(t, err)
}
