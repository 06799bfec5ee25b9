package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type AdminHandler struct {
	*Layout
	Inv *services.InventoryService
}

// GET /admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	products, err := h.Inv.List(ctx)
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return c.Status(fiber.StatusBadGateway).Render("notfound", fiber.Map{"Message": "Could not load inventory"})
	}

	form := services.ProductForm{}
	if raw := c.Query("edit"); raw != "" {
		if id, ok := validate.ID(raw); ok {
			for _, p := range products {
				if p.ID == id {
					form = services.FormFromProduct(p)
					break
				}
			}
		}
	}
	return h.render(c, "admin_inventory", fiber.Map{
		"Rows":    services.AdminRows(products),
		"Form":    form,
		"Editing": form.ID != "",
	})
}

// POST /admin/products
func (h *AdminHandler) SaveProduct(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var form services.ProductForm
	if err := c.BodyParser(&form); err != nil {
		applog.Security(c, "validation.fail", map[string]any{"field": "form"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	form.ID = strings.TrimSpace(form.ID)
	if form.ID != "" {
		if _, ok := validate.ID(form.ID); !ok {
			applog.Security(c, "validation.fail", map[string]any{"field": "id"})
			return c.Status(fiber.StatusBadRequest).SendString("invalid input")
		}
	}

	p, err := h.Inv.Save(c.UserContext(), form)
	if err != nil {
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			applog.Info(c, "admin.products.save.invalid", map[string]any{"fields": ve.Fields})
			h.flash(c, sid, msgRequiredFields)
		} else {
			applog.Error(c, "admin.products.save.fail", err, map[string]any{"product": form.ID})
			h.flash(c, sid, msgSaveFailed)
		}
		if form.ID != "" {
			return c.Redirect("/admin/inventory?edit=" + form.ID)
		}
		return c.Redirect("/admin/inventory")
	}

	action := "admin.products.create"
	if form.ID != "" {
		action = "admin.products.update"
	}
	applog.Audit(c, action, map[string]any{"product": p.ID, "quantity": p.Quantity, "price": p.Price})
	h.flash(c, sid, msgProductSaved)
	return c.Redirect("/admin/inventory")
}

// POST /admin/products/:id/delete
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	sid := ensureSID(c)
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "id"})
		return c.Status(fiber.StatusBadRequest).SendString("invalid input")
	}
	if err := h.Inv.Delete(c.UserContext(), id); err != nil {
		applog.Error(c, "admin.products.delete.fail", err, map[string]any{"product": id})
		h.flash(c, sid, msgDeleteFailed)
		return c.Redirect("/admin/inventory")
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product": id})
	h.flash(c, sid, msgProductDeleted)
	return c.Redirect("/admin/inventory")
}
