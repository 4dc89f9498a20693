package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PNGURuckus/EasyInterns/pkg/models"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	Error(zap.NewNop())(err, c)
	return rec
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"echo http error", echo.NewHTTPError(http.StatusBadRequest, "bad input"), http.StatusBadRequest},
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Wrap(models.ErrNotFound, "get posting"), http.StatusNotFound},
		{"invalid transition", errors.Wrap(models.ErrInvalidTransition, "pending -> completed"), http.StatusConflict},
		{"invalid profile", &models.InvalidProfileError{Err: errors.New("no skills")}, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := handleError(t, tt.err)
			assert.Equal(t, tt.expected, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestError_InternalDetailsHidden(t *testing.T) {
	rec := handleError(t, errors.New("pq: connection refused"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body.Message)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
