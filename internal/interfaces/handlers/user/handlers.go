package user

import (
	"errors"

	policies "certify-backend/internal/application/policies/user"
	usersvc "certify-backend/internal/application/user"
	"certify-backend/internal/domain"
	"certify-backend/internal/middleware"
	"certify-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// Handlers manages issuer accounts. Routes are mounted behind RequireAuth.
type Handlers struct {
	Service *usersvc.Service
}

// CreateUser POST /api/v1/users/create-user: requires MANAGE_USERS (middleware applied on route).
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	actor := middleware.GetSessionUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req usersvc.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" || req.Fullname == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	u, err := h.Service.CreateUser(c.UserContext(), actor.Role, req)
	if err != nil {
		return mapError(c, err)
	}
	log.Info().Str("actor_id", actor.UserID).Str("user_id", u.UserID.String()).Str("role", u.Role).Msg("user created")
	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// ViewUser GET /api/v1/users/view-user: the session user's own account.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	actor := middleware.GetSessionUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.ViewUser(c.UserContext(), actor.UserID)
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "User found", fiber.Map{"user": safeUser(u)}, nil)
}

// ListUsers GET /api/v1/users: requires MANAGE_USERS.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	users, err := h.Service.ListUsers(c.UserContext())
	if err != nil {
		return mapError(c, err)
	}
	out := make([]fiber.Map, len(users))
	for i := range users {
		out[i] = safeUser(&users[i])
	}
	return response.Success(c, "Users found", fiber.Map{"users": out}, nil)
}

// UpdateRoleRequest body: user_id, role.
type UpdateRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/update-role: requires MANAGE_USERS.
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.Role == "" {
		return response.Error(c, "user_id and role are required", fiber.StatusBadRequest, nil)
	}
	actor := middleware.GetSessionUser(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.UpdateUserRole(c.UserContext(), usersvc.UpdateUserRoleInput{
		ActorUserID:  actor.UserID,
		ActorRole:    actor.Role,
		TargetUserID: req.UserID,
		TargetRole:   req.Role,
	})
	if err != nil {
		return mapError(c, err)
	}
	return response.Success(c, "User role updated successfully", fiber.Map{"user": safeUser(u)}, nil)
}

func safeUser(u *domain.User) fiber.Map {
	return fiber.Map{
		"user_id":   u.UserID.String(),
		"fullname":  u.Fullname,
		"email":     u.Email,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	}
}

func mapError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, usersvc.ErrInvalidEmail), errors.Is(err, usersvc.ErrInvalidPassword),
		errors.Is(err, usersvc.ErrFullnameRequired), errors.Is(err, usersvc.ErrFullnameInvalid),
		errors.Is(err, usersvc.ErrMissingUserID), errors.Is(err, policies.ErrInvalidRole),
		errors.Is(err, policies.ErrUsersCannotModifyTheirOwnRole), errors.Is(err, policies.ErrMustKeepOneSuperadmin):
		status = fiber.StatusBadRequest
	case errors.Is(err, policies.ErrOnlySuperadminsCanAssignAdminOrSuperadmin):
		status = fiber.StatusForbidden
	case errors.Is(err, usersvc.ErrUserNotFound), errors.Is(err, policies.ErrTargetUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, usersvc.ErrEmailAlreadyRegistered):
		status = fiber.StatusConflict
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("user operation failed")
		return response.Error(c, "Internal Server Error", status, nil)
	}
	return response.Error(c, err.Error(), status, nil)
}
