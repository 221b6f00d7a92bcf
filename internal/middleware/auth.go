package middleware

import (
	"certify-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with standard error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetSessionUser returns the typed session user, or nil when nobody is logged in.
func GetSessionUser(c *fiber.Ctx) *SessionUser {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return nil
	}
	id, _ := m["user_id"].(string)
	if id == "" {
		return nil
	}
	u := &SessionUser{UserID: id}
	u.Fullname, _ = m["fullname"].(string)
	u.Email, _ = m["email"].(string)
	u.Role, _ = m["role"].(string)
	return u
}
