package api

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

// ProductHandler serves /products with the same contract as the remote backend.
type ProductHandler struct {
	Repo *repos.ProductRepo
}

type productPatch struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Image       *string  `json:"image"`
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
}

func checkProduct(p domain.Product) string {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return "name is required"
	case p.Price < 0:
		return "price must be >= 0"
	case p.Quantity < 0:
		return "quantity must be >= 0"
	}
	return ""
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	ps, err := h.Repo.List(c.UserContext())
	if err != nil {
		applog.Error(c, "api.products.list.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	return c.JSON(ps)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	p, err := h.Repo.Get(c.UserContext(), id)
	if errors.Is(err, repos.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		applog.Error(c, "api.products.get.fail", err, map[string]any{"product": id})
		return fiber.ErrInternalServerError
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var p domain.Product
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return badRequest(c, "invalid json body")
	}
	if msg := checkProduct(p); msg != "" {
		return badRequest(c, msg)
	}
	created, err := h.Repo.Create(c.UserContext(), p)
	if err != nil {
		applog.Error(c, "api.products.create.fail", err, nil)
		return fiber.ErrInternalServerError
	}
	applog.Audit(c, "api.products.create", map[string]any{"product": created.ID, "quantity": created.Quantity})
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *ProductHandler) Replace(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	var p domain.Product
	if err := json.Unmarshal(c.Body(), &p); err != nil {
		return badRequest(c, "invalid json body")
	}
	if msg := checkProduct(p); msg != "" {
		return badRequest(c, msg)
	}
	updated, err := h.Repo.Replace(c.UserContext(), id, p)
	if errors.Is(err, repos.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		applog.Error(c, "api.products.replace.fail", err, map[string]any{"product": id})
		return fiber.ErrInternalServerError
	}
	applog.Audit(c, "api.products.replace", map[string]any{"product": id, "quantity": updated.Quantity})
	return c.JSON(updated)
}

// Patch applies the fields present in the body.
func (h *ProductHandler) Patch(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	var patch productPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return badRequest(c, "invalid json body")
	}
	ctx := c.UserContext()

	// quantity-only patches are the hot path from checkout
	if patch.Quantity != nil && patch.Name == nil && patch.Category == nil &&
		patch.Description == nil && patch.Price == nil && patch.Image == nil {
		if *patch.Quantity < 0 {
			return badRequest(c, "quantity must be >= 0")
		}
		updated, err := h.Repo.SetQuantity(ctx, id, *patch.Quantity)
		if errors.Is(err, repos.ErrProductNotFound) {
			return notFound(c)
		}
		if err != nil {
			applog.Error(c, "api.products.patch.fail", err, map[string]any{"product": id})
			return fiber.ErrInternalServerError
		}
		applog.Audit(c, "api.products.quantity", map[string]any{"product": id, "quantity": updated.Quantity})
		return c.JSON(updated)
	}

	p, err := h.Repo.Get(ctx, id)
	if errors.Is(err, repos.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		applog.Error(c, "api.products.patch.fail", err, map[string]any{"product": id})
		return fiber.ErrInternalServerError
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if msg := checkProduct(p); msg != "" {
		return badRequest(c, msg)
	}
	updated, err := h.Repo.Replace(ctx, id, p)
	if err != nil {
		applog.Error(c, "api.products.patch.fail", err, map[string]any{"product": id})
		return fiber.ErrInternalServerError
	}
	applog.Audit(c, "api.products.patch", map[string]any{"product": id})
	return c.JSON(updated)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	err := h.Repo.Delete(c.UserContext(), id)
	if errors.Is(err, repos.ErrProductNotFound) {
		return notFound(c)
	}
	if err != nil {
		applog.Error(c, "api.products.delete.fail", err, map[string]any{"product": id})
		return fiber.ErrInternalServerError
	}
	applog.Audit(c, "api.products.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{})
}
