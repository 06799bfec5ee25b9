package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// Check reports current stock for one product.
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing productId",
		})
	}

	p, found, err := h.Inv.Get(c.UserContext(), productID)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "product service unavailable",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "product not found",
		})
	}
	return c.JSON(availability(p))
}

func availability(p domain.Product) fiber.Map {
	return fiber.Map{
		"productId": p.ID,
		"available": p.Quantity,
		"inStock":   p.Quantity > 0,
	}
}
