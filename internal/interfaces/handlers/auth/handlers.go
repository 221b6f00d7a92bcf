package auth

import (
	"errors"
	"time"

	authsvc "certify-backend/internal/application/auth"
	"certify-backend/internal/middleware"
	"certify-backend/internal/pkg/response"
	"certify-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Failed logins per email are capped inside a sliding window.
const (
	loginFailPrefix  = "login_failures:"
	maxLoginFailures = 5
	loginFailWindow  = 15 * time.Minute
)

var loginValidator = validation.New()

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login POST /api/v1/auth/login: authenticate, open a session tracked under
// user_sessions:<user_id> and set the cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if fieldErrs, _ := loginValidator.Struct(req); len(fieldErrs) > 0 {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, fieldErrs)
	}

	ctx := c.UserContext()
	failKey := loginFailPrefix + validation.NormalizeEmail(req.Email)
	if n, err := h.Rdb.Get(ctx, failKey).Int(); err == nil && n >= maxLoginFailures {
		log.Warn().Str("trace_id", middleware.GetTraceID(c)).Msg("login throttled")
		return response.Error(c, "Too many failed login attempts, try again later", fiber.StatusTooManyRequests, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrEmailPasswordRequired):
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case errors.Is(err, authsvc.ErrInvalidEmail), errors.Is(err, authsvc.ErrIncorrectPassword):
			pipe := h.Rdb.TxPipeline()
			pipe.Incr(ctx, failKey)
			pipe.Expire(ctx, failKey, loginFailWindow)
			if _, perr := pipe.Exec(ctx); perr != nil {
				log.Warn().Err(perr).Msg("login failure count not recorded")
			}
			log.Info().Str("trace_id", middleware.GetTraceID(c)).Msg("login rejected")
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		default:
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("login lookup failed")
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	su := middleware.SessionUser{
		UserID:   user.UserID.String(),
		Fullname: user.Fullname,
		Email:    user.Email,
		Role:     user.Role,
	}
	middleware.SetSessionUser(c, su)

	pipe := h.Rdb.TxPipeline()
	pipe.Del(ctx, failKey)
	pipe.SAdd(ctx, middleware.UserSessionsPrefix+su.UserID, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Msg("session tracking failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	log.Info().Str("trace_id", middleware.GetTraceID(c)).Str("user_id", su.UserID).Str("role", su.Role).Msg("login")
	return response.Success(c, "Login successful", fiber.Map{
		"user": authsvc.SessionUserShape(su),
	}, nil)
}

// Me GET /api/v1/auth/me: the session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		log.Debug().Bool("cookie_present", c.Cookies(middleware.SessionCookieName) != "").Msg("auth/me: not authenticated")
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout: drop the session from Redis and clear the cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := c.UserContext()

	if sessionID != "" {
		pipe := h.Rdb.TxPipeline()
		if u := middleware.GetSessionUser(c); u != nil {
			pipe.SRem(ctx, middleware.UserSessionsPrefix+u.UserID, sessionID)
		}
		pipe.Del(ctx, middleware.SessionRedisPrefix+sessionID)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn().Err(err).Msg("session cleanup failed")
		}
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
