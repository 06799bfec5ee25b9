package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

type OrderHandler struct {
	Repo *repos.OrderRepo
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var o domain.OrderRecord
	if err := json.Unmarshal(c.Body(), &o); err != nil {
		return badRequest(c, "invalid json body")
	}
	if o.ProductID == "" || strings.TrimSpace(o.Name) == "" || o.Quantity < 1 || o.Price < 0 || o.Date == "" {
		return badRequest(c, "productId, name, quantity >= 1, price >= 0 and date are required")
	}
	created, err := h.Repo.Create(c.UserContext(), o)
	if err != nil {
		applog.Error(c, "api.orders.create.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	applog.Audit(c, "api.orders.create", map[string]any{"order": created.ID, "product": created.ProductID, "quantity": created.Quantity})
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Repo.ListLatest(c.UserContext(), c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "api.orders.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return c.JSON(orders)
}
