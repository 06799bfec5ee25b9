package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

// AuthHandler serves the inventory editor's access code prompt.
type AuthHandler struct {
	*Layout
	Admin *services.AdminService
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	ensureSID(c)
	if h.Admin.IsUnlocked(c.UserContext(), c.Cookies("sid")) {
		return c.Redirect("/admin/inventory")
	}
	return h.render(c, "admin_login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	sid := ensureSID(c)
	code, ok := validate.AdminCode(c.FormValue("code"))
	if !ok {
		applog.Security(c, "admin.unlock.fail", map[string]any{"reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).Render("admin_login", fiber.Map{"Err": msgBadAdminCode, "CSRFToken": c.Cookies("csrf_")})
	}
	if err := h.Admin.Unlock(c.UserContext(), sid, code); err != nil {
		applog.Security(c, "admin.unlock.fail", nil)
		return c.Status(fiber.StatusUnauthorized).Render("admin_login", fiber.Map{"Err": msgBadAdminCode, "CSRFToken": c.Cookies("csrf_")})
	}
	applog.Audit(c, "admin.unlock", map[string]any{"sid": sid})
	return c.Redirect("/admin/inventory")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		_ = h.Admin.Lock(c.UserContext(), sid)
	}
	applog.Audit(c, "admin.lock", map[string]any{"sid": sid})
	return c.Redirect("/")
}
