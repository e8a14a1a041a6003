package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/common/apiresponses"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestApp() *fiber.App {
	logger := quietLogger()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	app.Use(RequestID())
	app.Use(AccessLog(logger, nil))
	app.Use(Recovery(logger))

	maintenance := app.Group("/maintenance", RequireRole(RoleMaintenance))
	maintenance.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Get("/missing", func(c *fiber.Ctx) error {
		return apierrors.NewBusinessError(apierrors.ErrCodeProductNotFound, "Product not found", nil)
	})
	app.Get("/panic", func(c *fiber.Ctx) error { panic("coin jam") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("disk on fire") })
	return app
}

func decodeError(t *testing.T, body io.Reader) apiresponses.ErrorResponse {
	t.Helper()
	var out apiresponses.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestRequireRole(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		role   string
		status int
	}{
		{"no header", "", fiber.StatusForbidden},
		{"wrong role", "customer", fiber.StatusForbidden},
		{"exact", "maintenance", fiber.StatusOK},
		{"case-insensitive", "MAINTENANCE", fiber.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/maintenance/", nil)
			if tc.role != "" {
				req.Header.Set(HeaderRole, tc.role)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == fiber.StatusForbidden {
				assert.Equal(t, apierrors.ErrCodeForbidden, decodeError(t, resp.Body).Error.Code)
			}
		})
	}
}

func TestErrorHandlerMapsErrors(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/missing", fiber.StatusNotFound, apierrors.ErrCodeProductNotFound},
		{"/panic", fiber.StatusInternalServerError, apierrors.ErrCodeSystemPanic},
		{"/boom", fiber.StatusInternalServerError, apierrors.ErrCodeInternalProcessing},
		{"/no-such-route", fiber.StatusNotFound, apierrors.ErrCodeRouteNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			body := decodeError(t, resp.Body)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.RequestID)
		})
	}
}

func TestRequestIDPropagated(t *testing.T) {
	app := newTestApp()
	req := httptest.NewRequest(fiber.MethodGet, "/missing", nil)
	req.Header.Set(HeaderRequestID, "req-42")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(HeaderRequestID))
	assert.Equal(t, "req-42", decodeError(t, resp.Body).Error.RequestID)
}
