package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	usersvc "certify-backend/internal/application/user"
	"certify-backend/internal/domain"
	"certify-backend/internal/infrastructure/database"
	"certify-backend/internal/middleware"
	"certify-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*Handlers, *usersvc.Service, *gorm.DB) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	svc := &usersvc.Service{DB: db, Rdb: rdb}
	return &Handlers{Service: svc}, svc, db
}

func asUser(userID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		middleware.SetSessionUser(c, middleware.SessionUser{
			UserID: userID, Fullname: "Test", Email: "test@test.com", Role: role,
		})
		return c.Next()
	}
}

func postJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func TestCreateUser_RequiresAuth(t *testing.T) {
	h, _, _ := setupUserTest(t)
	app := fiber.New()
	app.Use(middleware.RequireAuth())
	app.Post("/create-user", h.CreateUser)

	status, _ := postJSON(t, app, "POST", "/create-user", map[string]string{
		"email": "u1@test.com", "password": "Pass1!word", "fullname": "User One",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCreateUser_ViewerForbidden(t *testing.T) {
	h, _, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/create-user", asUser("00000000-0000-0000-0000-000000000001", constants.Viewer),
		middleware.AuthorizePermission(constants.ManageUsers), h.CreateUser)

	status, _ := postJSON(t, app, "POST", "/create-user", map[string]string{
		"email": "u1@test.com", "password": "Pass1!word", "fullname": "User One",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestCreateUser_Success(t *testing.T) {
	h, _, db := setupUserTest(t)
	app := fiber.New()
	app.Post("/create-user", asUser("00000000-0000-0000-0000-000000000001", constants.Admin), h.CreateUser)

	status, out := postJSON(t, app, "POST", "/create-user", map[string]string{
		"email": "issuer@test.com", "password": "Pass1!word", "fullname": "issuer one", "role": constants.Manager,
	})
	require.Equal(t, fiber.StatusCreated, status)
	user := out["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "Issuer One", user["fullname"])
	assert.Equal(t, constants.Manager, user["role"])
	assert.NotContains(t, user, "password_hash")

	var count int64
	db.Model(&domain.User{}).Where("email = ?", "issuer@test.com").Count(&count)
	assert.Equal(t, int64(1), count)

	status, _ = postJSON(t, app, "POST", "/create-user", map[string]string{
		"email": "issuer@test.com", "password": "Pass1!word", "fullname": "Issuer One",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, _ = postJSON(t, app, "POST", "/create-user", map[string]string{
		"email": "boss@test.com", "password": "Pass1!word", "fullname": "Boss", "role": constants.Admin,
	})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestCreateUser_BadInput(t *testing.T) {
	h, _, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/create-user", asUser("00000000-0000-0000-0000-000000000001", constants.Admin), h.CreateUser)

	status, _ := postJSON(t, app, "POST", "/create-user", map[string]string{"email": "x@test.com"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, out := postJSON(t, app, "POST", "/create-user", map[string]string{
		"email": "x@test.com", "password": "weak", "fullname": "X",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid password format", out["error"].(map[string]interface{})["message"])
}

func TestViewUserAndList(t *testing.T) {
	h, svc, _ := setupUserTest(t)
	u, err := svc.CreateUser(context.Background(), constants.Superadmin, usersvc.CreateUserInput{
		Email: "me@test.com", Password: "Pass1!word", Fullname: "Me", Role: constants.Admin,
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/view-user", asUser(u.UserID.String(), u.Role), h.ViewUser)
	app.Get("/users", asUser(u.UserID.String(), u.Role), h.ListUsers)

	resp, err := app.Test(httptest.NewRequest("GET", "/view-user", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/users", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	users := out["data"].(map[string]interface{})["users"].([]interface{})
	assert.Len(t, users, 1)
}

func TestUpdateRole(t *testing.T) {
	h, svc, _ := setupUserTest(t)
	root, err := svc.CreateUser(context.Background(), constants.Superadmin, usersvc.CreateUserInput{
		Email: "root@test.com", Password: "Pass1!word", Fullname: "Root", Role: constants.Superadmin,
	})
	require.NoError(t, err)
	target, err := svc.CreateUser(context.Background(), constants.Superadmin, usersvc.CreateUserInput{
		Email: "t@test.com", Password: "Pass1!word", Fullname: "Target",
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Patch("/update-role", asUser(root.UserID.String(), constants.Superadmin), h.UpdateRole)

	status, out := postJSON(t, app, "PATCH", "/update-role", map[string]string{"user_id": target.UserID.String(), "role": constants.Manager})
	require.Equal(t, fiber.StatusOK, status)
	user := out["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, constants.Manager, user["role"])

	status, _ = postJSON(t, app, "PATCH", "/update-role", map[string]string{"user_id": root.UserID.String(), "role": constants.Viewer})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postJSON(t, app, "PATCH", "/update-role", map[string]string{"user_id": "not-a-uuid", "role": constants.Viewer})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = postJSON(t, app, "PATCH", "/update-role", map[string]string{"user_id": root.UserID.String()})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
