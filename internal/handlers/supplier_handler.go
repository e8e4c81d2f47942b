package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"invadmin/internal/core"
	"invadmin/internal/models"
	"invadmin/internal/services"
)

// SupplierHandler handles HTTP requests for suppliers.
type SupplierHandler struct {
	service *services.SupplierService
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(service *services.SupplierService) *SupplierHandler {
	return &SupplierHandler{
		service: service,
	}
}

// RegisterRoutes registers the supplier routes with the Fiber app.
func (h *SupplierHandler) RegisterRoutes(router fiber.Router) {
	supplierRoutes := router.Group("/suppliers")
	supplierRoutes.Get("/", h.HandleListSuppliers)
	supplierRoutes.Post("/", h.HandleCreateSupplier)
	supplierRoutes.Put("/:id", h.HandleUpdateSupplier)
	supplierRoutes.Delete("/:id", h.HandleDeleteSupplier)
}

// HandleListSuppliers returns suppliers in the list envelope. Supports a
// `search` query parameter over name, contact person and email.
func (h *SupplierHandler) HandleListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers(c.Query("search"))
	if err != nil {
		log.Printf("Error listing suppliers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve suppliers",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"results": suppliers,
		"count":   len(suppliers),
	})
}

// HandleCreateSupplier creates a new supplier after form validation.
func (h *SupplierHandler) HandleCreateSupplier(c *fiber.Ctx) error {
	var supplier models.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		log.Printf("Error parsing create supplier request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if fieldErrs := core.ValidateSupplier(supplier); len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrs,
		})
	}

	if err := h.service.CreateSupplier(&supplier); err != nil {
		log.Printf("Error creating supplier: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create supplier",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

// HandleUpdateSupplier updates an existing supplier after form validation.
func (h *SupplierHandler) HandleUpdateSupplier(c *fiber.Ctx) error {
	var supplier models.Supplier
	if err := c.BodyParser(&supplier); err != nil {
		log.Printf("Error parsing update supplier request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	supplier.ID = c.Params("id")

	if fieldErrs := core.ValidateSupplier(supplier); len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fieldErrs,
		})
	}

	if err := h.service.UpdateSupplier(&supplier); err != nil {
		log.Printf("Error updating supplier %s: %v", supplier.ID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Supplier not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update supplier",
			"error":   err.Error(),
		})
	}
	return c.JSON(supplier)
}

// HandleDeleteSupplier deletes a supplier by its ID.
func (h *SupplierHandler) HandleDeleteSupplier(c *fiber.Ctx) error {
	supplierID := c.Params("id")
	if err := h.service.DeleteSupplier(supplierID); err != nil {
		log.Printf("Error deleting supplier %s: %v", supplierID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Supplier not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete supplier",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Supplier deleted successfully",
	})
}
