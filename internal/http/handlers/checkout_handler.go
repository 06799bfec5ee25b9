package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

type CheckoutHandler struct {
	*Layout
	Cart     *services.CartService
	Checkout *services.CheckoutService
}

// Checkout shows the review table, or the payment form once the session has proceeded.
func (h *CheckoutHandler) View(c *fiber.Ctx) error {
	sid := ensureSID(c)
	ctx := c.UserContext()
	cv, err := h.Cart.View(ctx, sid)
	if err != nil {
		applog.Error(c, "checkout.load", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load your cart"})
	}
	stage := h.Checkout.Stage(ctx, sid)
	if cv.Empty && stage != services.StageReview {
		h.Checkout.Cancel(ctx, sid)
		stage = services.StageReview
	}
	return h.render(c, "cart", fiber.Map{"Cart": cv, "Stage": string(stage)})
}

func (h *CheckoutHandler) Proceed(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Checkout.Proceed(c.UserContext(), sid); err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			h.flash(c, sid, msgEmptyCart)
		} else {
			applog.Error(c, "checkout.proceed.fail", err, nil)
			h.flash(c, sid, msgGeneric)
		}
		return c.Redirect("/cart")
	}
	return c.Redirect("/checkout")
}

func (h *CheckoutHandler) Cancel(c *fiber.Ctx) error {
	sid := ensureSID(c)
	h.Checkout.Cancel(c.UserContext(), sid)
	return c.Redirect("/cart")
}

func (h *CheckoutHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)
	confirmed := c.FormValue("confirm") != ""

	order, err := h.Checkout.Place(c.UserContext(), sid, confirmed)
	if err != nil {
		var sub *services.SubmissionError
		if errors.As(err, &sub) {
			applog.Error(c, "order.place.fail", err, map[string]any{
				"failed":    sub.Failed,
				"completed": len(sub.Completed),
			})
		} else {
			applog.Security(c, "order.place.reject", map[string]any{"sid": sid, "error": err.Error()})
		}
		h.flash(c, sid, checkoutMessage(err))
		if errors.Is(err, services.ErrStockExceeded) || errors.Is(err, services.ErrEmptyCart) {
			return c.Redirect("/cart")
		}
		return c.Redirect("/checkout")
	}

	applog.Audit(c, "order.place", map[string]any{
		"lines": len(order.Items),
		"total": order.Total,
	})
	return c.Redirect("/order-success")
}

// Success shows the last completed order once.
func (h *CheckoutHandler) Success(c *fiber.Ctx) error {
	sid := ensureSID(c)
	order, err := h.Checkout.ConsumeLastOrder(c.UserContext(), sid)
	if err != nil {
		applog.Error(c, "order.success.load", err, nil)
	}
	if order == nil {
		return h.render(c, "order_success", fiber.Map{"Message": msgNoOrder})
	}
	lines := make([]fiber.Map, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, fiber.Map{
			"Name":       it.Name,
			"Quantity":   it.Quantity,
			"PriceLabel": services.PriceLabel(it.Price),
			"TotalLabel": services.PriceLabel(it.Total),
		})
	}
	return h.render(c, "order_success", fiber.Map{
		"Order":      order,
		"Lines":      lines,
		"TotalLabel": services.PriceLabel(order.Total),
	})
}
