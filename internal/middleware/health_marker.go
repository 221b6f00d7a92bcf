package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for request statistics, shared with the health service and dashboard.
const (
	KeyReqTotal  = "health:certify:req_total"
	KeyReqErrors = "health:certify:req_errors"
	KeyResTime   = "health:certify:res_time_total"
	KeyResCount  = "health:certify:res_count"
	KeyStartTime = "health:certify:start_time"
	KeyLastReq   = "health:certify:last_request"
	KeyErrorLog  = "health:certify:error_log"
)

// ErrorLogSize caps the error log kept in Redis.
const ErrorLogSize = 50

// HealthMarker records request stats in Redis (skip /, /health*, /metrics, favicon).
// Responses with status >= 500 are also pushed onto the capped error log.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/health") || path == "/metrics" || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_, _ = rdb.Set(ctx, KeyLastReq, b, 0).Result()
		_, _ = rdb.Incr(ctx, KeyReqTotal).Result()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Result()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		if status >= fiber.StatusInternalServerError {
			_, _ = rdb.Incr(ctx, KeyReqErrors).Result()
			entry := map[string]interface{}{
				"time":     time.Now(),
				"method":   c.Method(),
				"path":     c.OriginalURL(),
				"status":   status,
				"trace_id": GetTraceID(c),
				"message":  errorMessage(err, status),
			}
			eb, _ := json.Marshal(entry)
			_, _ = rdb.LPush(ctx, KeyErrorLog, eb).Result()
			_, _ = rdb.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1).Result()
		}
		return err
	}
}

func errorMessage(err error, status int) string {
	if err != nil {
		return err.Error()
	}
	if status == fiber.StatusServiceUnavailable {
		return "Service Unavailable"
	}
	return "Internal Server Error"
}
