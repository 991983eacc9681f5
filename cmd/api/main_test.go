package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilovv/poketrade-api/internal/apperrors"
)

func testApp(handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Get("/boom", handler)
	return app
}

func fetchJSON(t *testing.T, app *fiber.App) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestErrorHandlerAppError(t *testing.T) {
	app := testApp(func(c fiber.Ctx) error {
		return apperrors.NotFound("Trade offer")
	})

	status, body := fetchJSON(t, app)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "Trade offer not found", body["message"])
	assert.NotContains(t, body, "details")
}

func TestErrorHandlerAppErrorDetails(t *testing.T) {
	app := testApp(func(c fiber.Ctx) error {
		return apperrors.Validation("Invalid payload", map[string]string{"quantity": "gt"})
	})

	status, body := fetchJSON(t, app)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	assert.Equal(t, map[string]any{"quantity": "gt"}, body["details"])
}

func TestErrorHandlerFiberError(t *testing.T) {
	app := testApp(func(c fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})

	status, body := fetchJSON(t, app)
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.NotEmpty(t, body["error"])
}
