package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalogo/internal/errs"
	"catalogo/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logger)})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.RequestIDKey, "req-1")
		return c.Next()
	})
	app.Use(middleware.RequestLogger(logger))

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		return &errs.ValidationError{Errors: []errs.FieldError{{Type: "field", Msg: "ID no valido", Path: "id", Location: "params"}}}
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fmt.Errorf("lookup: %w", errs.NewNotFoundError(errs.MsgProductNotFound))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.5:5432: connection refused")
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestErrorHandler(t *testing.T) {
	app := newApp(zerolog.Nop())

	status, body := get(t, app, "/validation")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, body["errors"], 1)

	status, body = get(t, app, "/missing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{"error": "Producto no encontrado"}, body)

	status, body = get(t, app, "/fiber")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "Method Not Allowed", body["error"])

	status, body = get(t, app, "/internal")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]any{"error": "Error interno del servidor"}, body)
}

func TestErrorHandler_LogsInternalErrors(t *testing.T) {
	var buf bytes.Buffer
	app := newApp(zerolog.New(&buf))

	get(t, app, "/internal")

	var found bool
	for _, line := range logLines(t, &buf) {
		if line["message"] == "unhandled error" {
			found = true
			assert.Equal(t, "req-1", line["request_id"])
			assert.Contains(t, line["error"], "connection refused")
		}
	}
	assert.True(t, found, "internal error was not logged")
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		path   string
		status float64
		level  string
	}{
		{"/ok", 200, "info"},
		{"/validation", 400, "warn"},
		{"/missing", 404, "warn"},
		{"/internal", 500, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var buf bytes.Buffer
			app := newApp(zerolog.New(&buf))

			get(t, app, tt.path)

			var requestLine map[string]any
			for _, line := range logLines(t, &buf) {
				if line["message"] == "API" {
					requestLine = line
				}
			}
			require.NotNil(t, requestLine, "request was not logged")
			assert.Equal(t, tt.level, requestLine["level"])
			assert.Equal(t, tt.status, requestLine["status"])
			assert.Equal(t, "GET", requestLine["method"])
			assert.Equal(t, tt.path, requestLine["path"])
			assert.Equal(t, "req-1", requestLine["request_id"])
		})
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("[" + middleware.RequestID(c) + "]")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", buf.String())
}
