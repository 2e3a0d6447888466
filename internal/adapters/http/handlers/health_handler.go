package handlers

import (
	"time"

	"classhub/internal/config"
	"classhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Root returns a minimal service banner
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "classhub API", fiber.Map{
		"version": "1.0",
	})
}

// Check returns service health including database connectivity
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := config.HealthCheck(); err != nil {
		dbStatus = "unavailable"
	}

	status := fiber.Map{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).String(),
		"database": dbStatus,
	}

	if dbStatus != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return response.Success(c, "Service healthy", status)
}
