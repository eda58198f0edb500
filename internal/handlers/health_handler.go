package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	ping func() error
}

// NewHealthHandler creates a HealthHandler. ping checks the database.
func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when the database responds and 503 otherwise.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, database, code := "healthy", "connected", fiber.StatusOK
	if h.ping != nil {
		if err := h.ping(); err != nil {
			status, database, code = "degraded", "unreachable", fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().UTC().Format(time.RFC3339),
		"database": database,
	})
}
