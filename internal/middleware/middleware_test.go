package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageQuery struct {
	Page int `query:"page" validate:"omitempty,min=1"`
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger())
	app.Get("/admin", AdminOnly("secret"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/closed", AdminOnly(""), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/items", ValidateQueryParams[pageQuery](), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": QueryParams[pageQuery](c).Page})
	})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestAdminOnly(t *testing.T) {
	app := newApp()

	tests := []struct {
		name   string
		path   string
		key    string
		status int
	}{
		{"missing key", "/admin", "", fiber.StatusUnauthorized},
		{"wrong key", "/admin", "nope", fiber.StatusForbidden},
		{"right key", "/admin", "secret", fiber.StatusOK},
		{"disabled", "/closed", "anything", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeader, tt.key)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestValidateQueryParams(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items?page=3", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), decode(t, resp)["page"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items?page=0", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "min", decode(t, resp)["fields"].(map[string]any)["Page"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/items?page=abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items", nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestErrorHandlerKeepsClientMessage(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, "short and stout", decode(t, resp)["error"])
}
