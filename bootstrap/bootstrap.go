package bootstrap

import (
	"certify-backend/internal/config"
	"certify-backend/internal/interfaces/router"
	"certify-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for Vercel serverless (api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Init(cfg.LogLevel, "")
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
