package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CatalogHandler struct {
	*Layout
	Catalog *services.CatalogService
}

// Home renders the product grid, optionally filtered by ?q= and ?category=.
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	ensureSID(c)

	var q, category string
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		v, ok := validate.Q(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return c.Status(fiber.StatusBadRequest).Render("catalog", fiber.Map{
				"Products": []services.ProductCard{}, "Err": "Enter a valid keyword (letters/numbers only)",
			})
		}
		q = v
	}
	if raw := c.Query("category"); strings.TrimSpace(raw) != "" {
		v, ok := validate.Category(raw)
		if !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "category"})
			return c.Status(fiber.StatusBadRequest).Render("catalog", fiber.Map{
				"Q": q, "Products": []services.ProductCard{}, "Err": "Invalid category",
			})
		}
		category = v
	}

	cards, cats := h.Catalog.Browse(c.UserContext(), q, category)
	return h.render(c, "catalog", fiber.Map{
		"Q": q, "Category": category, "Categories": cats,
		"Products": cards, "Count": len(cards),
	})
}

func (h *CatalogHandler) Detail(c *fiber.Ctx) error {
	ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return notFound(c, msgItemUnavailable)
	}
	card, ok := h.Catalog.Product(c.UserContext(), id)
	if !ok {
		return notFound(c, msgItemUnavailable)
	}
	return h.render(c, "product", fiber.Map{"P": card})
}
