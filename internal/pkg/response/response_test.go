package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler) (int, string, map[string]interface{}) {
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, resp.Header.Get(fiber.HeaderRetryAfter), out
}

func TestSuccessEnvelope(t *testing.T) {
	status, _, out := call(t, func(c *fiber.Ctx) error {
		return SuccessCreated(c, "done", fiber.Map{"n": 1}, nil)
	})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "done", out["message"])
	assert.Equal(t, float64(1), out["data"].(map[string]interface{})["n"])
	assert.Equal(t, map[string]interface{}{}, out["metadata"])
}

func TestErrorEnvelopes(t *testing.T) {
	tests := []struct {
		name       string
		handler    fiber.Handler
		wantStatus int
		wantRetry  string
	}{
		{"error", func(c *fiber.Ctx) error { return Error(c, "bad", fiber.StatusBadRequest, nil) }, fiber.StatusBadRequest, ""},
		{"unauthorized", func(c *fiber.Ctx) error { return Unauthorized(c, "bad") }, fiber.StatusUnauthorized, ""},
		{"forbidden", func(c *fiber.Ctx) error { return Forbidden(c, "bad") }, fiber.StatusForbidden, ""},
		{"unavailable", func(c *fiber.Ctx) error { return Unavailable(c, "bad") }, fiber.StatusServiceUnavailable, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, retry, out := call(t, tt.handler)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantRetry, retry)
			assert.Equal(t, "error", out["status"])
			detail := out["error"].(map[string]interface{})
			assert.Equal(t, "bad", detail["message"])
			assert.Equal(t, float64(tt.wantStatus), detail["statusCode"])
		})
	}
}
