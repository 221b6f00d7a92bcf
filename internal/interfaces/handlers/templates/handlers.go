package templates

import (
	tplsvc "certify-backend/internal/application/templates"
	"certify-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Catalog *tplsvc.Catalog
}

// List GET /api/v1/templates
func (h *Handlers) List(c *fiber.Ctx) error {
	return response.Success(c, "Templates found", fiber.Map{"templates": h.Catalog.All()}, nil)
}
