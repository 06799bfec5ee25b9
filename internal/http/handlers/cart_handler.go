package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	*Layout
	Cart *services.CartService
}

// back redirects to the page the form was posted from, defaulting to fallback.
func back(c *fiber.Ctx, fallback string) error {
	if next := c.FormValue("next"); len(next) > 0 && next[0] == '/' && (len(next) == 1 || next[1] != '/') {
		return c.Redirect(next)
	}
	return c.Redirect(fallback)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty := validate.Qty(c.FormValue("qty"))

	err := h.Cart.AddItem(c.UserContext(), sid, productID, qty)
	switch {
	case err == nil:
		applog.Info(c, "cart.add", map[string]any{"product": productID, "qty": qty})
	case errors.Is(err, services.ErrStockExceeded):
		applog.Info(c, "cart.add.stock", map[string]any{"product": productID, "qty": qty})
		h.flash(c, sid, msgNotEnoughStock)
	default:
		applog.Error(c, "cart.add.fail", err, map[string]any{"product": productID})
		h.flash(c, sid, msgGeneric)
	}
	return back(c, "/")
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	cv, err := h.Cart.View(c.UserContext(), sid)
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	return h.render(c, "cart", fiber.Map{"Cart": cv, "Stage": string(services.StageReview)})
}

// Update sets a line's quantity from the review table.
func (h *CartHandler) Update(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	qty, ok := validate.SetQty(c.FormValue("qty"))
	if !ok {
		// Non-positive edits leave the line unchanged.
		return back(c, "/cart")
	}

	err := h.Cart.UpdateItemQuantity(c.UserContext(), sid, productID, qty)
	switch {
	case err == nil:
		applog.Info(c, "cart.update", map[string]any{"product": productID, "qty": qty})
	case errors.Is(err, services.ErrStockExceeded):
		h.flash(c, sid, msgExceedsStock)
	case errors.Is(err, services.ErrInvalidQuantity):
	default:
		applog.Error(c, "cart.update.fail", err, map[string]any{"product": productID})
		h.flash(c, sid, msgGeneric)
	}
	return back(c, "/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	productID, ok := validate.ID(c.FormValue("productId"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "productId"})
		return c.Status(fiber.StatusBadRequest).SendString("missing productId")
	}
	if err := h.Cart.RemoveItem(c.UserContext(), sid, productID); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product": productID})
		h.flash(c, sid, msgGeneric)
	} else {
		applog.Info(c, "cart.remove", map[string]any{"product": productID})
	}
	return back(c, "/cart")
}

// Count serves the badge value for pages that refresh it without a reload.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" {
		return c.JSON(fiber.Map{"count": 0})
	}
	return c.JSON(fiber.Map{"count": h.Cart.Count(c.UserContext(), sid)})
}
