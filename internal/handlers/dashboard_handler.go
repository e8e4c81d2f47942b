package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"invadmin/internal/services"
)

// DashboardHandler serves the derived dashboard metrics.
type DashboardHandler struct {
	service *services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// RegisterRoutes registers the dashboard routes with the Fiber app.
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.HandleGetMetrics)
}

// HandleGetMetrics recomputes and returns the dashboard metrics from the
// current snapshots.
func (h *DashboardHandler) HandleGetMetrics(c *fiber.Ctx) error {
	metrics, err := h.service.Metrics()
	if err != nil {
		log.Printf("Error computing dashboard metrics: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute dashboard metrics",
			"error":   err.Error(),
		})
	}
	return c.JSON(metrics)
}
