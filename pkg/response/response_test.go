package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "campusissues/pkg/errors"
)

func call(t *testing.T, fn func(c echo.Context) error) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, fn(c))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSuccessEnvelope(t *testing.T) {
	rec, body := call(t, func(c echo.Context) error {
		return Success(c, map[string]int{"total": 3})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.NotEmpty(t, body.Timestamp)
}

func TestErrorUsesAppErrorStatus(t *testing.T) {
	rec, body := call(t, func(c echo.Context) error {
		return Error(c, fmt.Errorf("wrapped: %w", apperrors.Forbidden("Access Denied: Admins only!", nil)))
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestErrorHidesUnderlyingCause(t *testing.T) {
	rec, body := call(t, func(c echo.Context) error {
		return Error(c, apperrors.Internal("Failed to list issues", fmt.Errorf("rpc error: secret detail")))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
	assert.Equal(t, "Failed to list issues", body.Error.Message)
}

func TestErrorMapsDeadlineToTimeout(t *testing.T) {
	rec, body := call(t, func(c echo.Context) error {
		return Error(c, fmt.Errorf("query: %w", context.DeadlineExceeded))
	})

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "TIMEOUT", body.Error.Code)
}

func TestErrorMapsEchoHTTPError(t *testing.T) {
	rec, body := call(t, func(c echo.Context) error {
		return Error(c, echo.NewHTTPError(http.StatusNotFound, "no such route"))
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "no such route", body.Error.Message)
}

func TestUnknownErrorIsGeneric(t *testing.T) {
	rec, body := call(t, func(c echo.Context) error {
		return Error(c, fmt.Errorf("boom"))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}
