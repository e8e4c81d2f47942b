package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"invadmin/internal/repositories"
	"invadmin/internal/services"
)

// MovementHandler handles HTTP requests for the stock movement audit trail.
type MovementHandler struct {
	service *services.MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(service *services.MovementService) *MovementHandler {
	return &MovementHandler{
		service: service,
	}
}

// RegisterRoutes registers the stock movement routes with the Fiber app.
func (h *MovementHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/stock-movements", h.HandleListMovements)
}

// HandleListMovements lists stock movements most recent first. Supports
// `limit` and `search` query parameters plus exact `movement_type` and
// `product` filters.
func (h *MovementHandler) HandleListMovements(c *fiber.Ctx) error {
	filter := repositories.MovementFilter{
		Limit:        c.QueryInt("limit", 0),
		Search:       c.Query("search"),
		MovementType: c.Query("movement_type"),
		ProductID:    c.Query("product"),
	}

	movements, err := h.service.ListMovements(filter)
	if err != nil {
		log.Printf("Error listing stock movements: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve stock movements",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"results": movements,
		"count":   len(movements),
	})
}
