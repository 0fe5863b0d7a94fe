package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/observability"
)

func errorCode(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	return resp.StatusCode, body.Error.Code
}

func TestErrorMiddlewareRendering(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 50*time.Millisecond)

	app.Get("/panic", func(*fiber.Ctx) error { panic("boom") })
	app.Get("/slow", func(c *fiber.Ctx) error {
		<-c.UserContext().Done()
		return c.UserContext().Err()
	})
	app.Get("/teapot", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusForbidden, "nope") })

	status, code := errorCode(t, app, "/panic")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)

	status, code = errorCode(t, app, "/slow")
	assert.Equal(t, fiber.StatusGatewayTimeout, status)
	assert.Equal(t, "TIMEOUT", code)

	status, code = errorCode(t, app, "/teapot")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", code)

	status, code = errorCode(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", code)

	count, err := testutil.GatherAndCount(registry, "backoffice_http_errors_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 3)
}

func TestRequestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(requestTimeoutMiddleware(time.Minute))
	app.Get("/", func(c *fiber.Ctx) error {
		deadline, ok := c.UserContext().Deadline()
		if !ok || time.Until(deadline) > time.Minute {
			return fiber.ErrInternalServerError
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
