package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"certify-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb, mr
}

func withUser(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(userLocal, map[string]interface{}{
			"user_id":  "550e8400-e29b-41d4-a716-446655440000",
			"fullname": "Issuer",
			"email":    "issuer@example.com",
			"role":     role,
		})
		return c.Next()
	}
}

func TestSession_LoginPersistsAndReloads(t *testing.T) {
	rdb, mr := setupRedis(t)
	app := fiber.New()
	app.Use(Session(rdb))
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UserID: "u1", Email: "issuer@example.com", Role: constants.Manager})
		return c.SendString(sid)
	})
	app.Get("/me", func(c *fiber.Ctx) error {
		u := GetSessionUser(c)
		if u == nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(u.Role)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	sid := string(b)
	assert.True(t, mr.Exists(SessionRedisPrefix+sid))

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:"+sid)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	b, _ = io.ReadAll(resp.Body)
	assert.Equal(t, constants.Manager, string(b))
}

func TestSession_AnonymousLeavesNothing(t *testing.T) {
	rdb, mr := setupRedis(t)
	app := fiber.New()
	app.Use(Session(rdb))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", SessionCookieName+"=s:unknown-session")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, mr.Keys())
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/anon", RequireAuth(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/user", withUser(constants.Viewer), RequireAuth(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/anon", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/user", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthorizePermission(t *testing.T) {
	cases := []struct {
		role       string
		permission string
		want       int
	}{
		{constants.Manager, constants.IssueCertificates, fiber.StatusOK},
		{constants.Viewer, constants.IssueCertificates, fiber.StatusForbidden},
		{constants.Viewer, "unknown_permission", fiber.StatusInternalServerError},
		{"", constants.IssueCertificates, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", withUser(tc.role), AuthorizePermission(tc.permission), func(c *fiber.Ctx) error { return c.SendString("ok") })
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, "%s/%s", tc.role, tc.permission)
	}

	app := fiber.New()
	app.Get("/", AuthorizePermission(constants.IssueCertificates), func(c *fiber.Ctx) error { return c.SendString("ok") })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedSuffix: ".certify.example", DevPassword: "letmein"}))
	app.Post("/api/v1/verify", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest("POST", "/api/v1/verify", nil)
	req.Header.Set("Origin", "https://app.certify.example")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "https://app.certify.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("OPTIONS", "/api/v1/verify", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/verify", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req.Header.Set("dev-password", "letmein")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTracing(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.NotEmpty(t, string(b))
	assert.Equal(t, string(b), resp.Header.Get(traceIDHeader))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(traceIDHeader, "8a1c2b4e-0d3f-4c5a-9b6e-7f8091a2b3c4")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "8a1c2b4e-0d3f-4c5a-9b6e-7f8091a2b3c4", resp.Header.Get(traceIDHeader))
}

func TestHealthMarker_CountsAndLogsErrors(t *testing.T) {
	rdb, _ := setupRedis(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Tracing())
	app.Use(HealthMarker(rdb))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/down", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusServiceUnavailable) })
	app.Get("/health/json", func(c *fiber.Ctx) error { return c.SendString("{}") })

	for _, p := range []string{"/ok", "/down", "/health/json"} {
		_, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
	}

	ctx := context.Background()
	total, err := rdb.Get(ctx, KeyReqTotal).Int()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	errs, err := rdb.Get(ctx, KeyReqErrors).Int()
	require.NoError(t, err)
	assert.Equal(t, 1, errs)

	entries, err := rdb.LRange(ctx, KeyErrorLog, 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &entry))
	assert.Equal(t, "/down", entry["path"])
	assert.Equal(t, "Service Unavailable", entry["message"])
	assert.NotEmpty(t, entry["trace_id"])
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.Contains(string(b), "short and stout"))

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	b, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "Internal Server Error")
}
