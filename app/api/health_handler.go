package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/instincthub/ui-catalog-mcp/app/engine"
)

// HealthHandler reports liveness along with the catalog size and build version.
type HealthHandler struct {
	svc     engine.Service
	version string
}

// NewHealthHandler returns a handler instance.
func NewHealthHandler(svc engine.Service, version string) *HealthHandler {
	return &HealthHandler{svc: svc, version: version}
}

// Register mounts GET /health on the given router group.
func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

// health reports the catalog state, a catalog that can't be loaded makes the service unavailable
func (h *HealthHandler) health(c *fiber.Ctx) error {
	list, err := h.svc.Components(c.UserContext(), engine.ListRequest{})
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(Response{
			Data:  fiber.Map{"status": "error", "version": h.version},
			Error: err.Error(),
		})
	}

	return ok(c, fiber.Map{
		"status":     "ok",
		"version":    h.version,
		"components": list.Total,
	})
}
