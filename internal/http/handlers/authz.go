package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
)

// RequireAdmin lets the request through only when the session has unlocked
// the inventory editor; otherwise it redirects to the code prompt.
func RequireAdmin(admin *services.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/admin/login")
		}
		if !admin.IsUnlocked(c.UserContext(), sid) {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Redirect("/admin/login")
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
