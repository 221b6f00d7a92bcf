package health

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	healthsvc "certify-backend/internal/application/health"
	"certify-backend/internal/middleware"
	"certify-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const serviceName = "certify-api"

var statKeys = []string{
	middleware.KeyReqTotal,
	middleware.KeyReqErrors,
	middleware.KeyResTime,
	middleware.KeyResCount,
	middleware.KeyStartTime,
	middleware.KeyLastReq,
	middleware.KeyErrorLog,
}

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Rdb            *redis.Client
	DB             healthsvc.DBPinger
	Certificates   healthsvc.CertificateCounter
	HealthAdminKey string
}

// Reset clears health stats in Redis. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.HealthAdminKey {
		return response.Forbidden(c, "Unauthorized")
	}
	ctx := context.Background()
	if err := h.Rdb.Del(ctx, statKeys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Stats reset successfully", fiber.Map{"success": true}, nil)
}

// JSON returns the service status, runtime, traffic, certificate count and dependencies.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.UserContext(), h.Rdb, h.DB, h.Certificates)
	out := map[string]interface{}{
		"service":      serviceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"certificates": result.Certificates,
		"dependencies": result.Dependencies,
	}
	return c.JSON(out)
}

// Errors returns the newest error log entries recorded by HealthMarker, ?limit=n
// (default and maximum middleware.ErrorLogSize).
func (h *Handlers) Errors(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", middleware.ErrorLogSize)
	if limit <= 0 || limit > middleware.ErrorLogSize {
		limit = middleware.ErrorLogSize
	}
	entries, err := h.Rdb.LRange(c.UserContext(), middleware.KeyErrorLog, 0, int64(limit-1)).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	errors := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if _ = json.Unmarshal([]byte(s), &m); m != nil {
			errors = append(errors, m)
		}
	}
	return c.JSON(errors)
}

// Dashboard returns the HTML health status page with embedded health data.
func (h *Handlers) Dashboard(c *fiber.Ctx) error {
	result := healthsvc.CollectHealth(c.UserContext(), h.Rdb, h.DB, h.Certificates)
	html := healthsvc.RenderDashboardHTML(result)
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(html)
}
