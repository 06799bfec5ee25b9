package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

// Layout supplies what every page shows: CSRF token, pending flash message,
// cart badge and whether the inventory editor is unlocked.
type Layout struct {
	Flash *services.FlashService
	Cart  *services.CartService
	Admin *services.AdminService
}

func (l *Layout) render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		// Fall back to the cookie so hidden fields are never empty.
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}

	if l != nil {
		ctx := c.UserContext()
		sid := c.Cookies("sid")
		if sid == "" {
			sid, _ = c.Locals("sid").(string)
		}
		if sid != "" {
			if l.Flash != nil {
				if msg := l.Flash.Pop(ctx, sid); msg != "" {
					data["Flash"] = msg
				}
			}
			if l.Cart != nil {
				data["CartCount"] = l.Cart.Count(ctx, sid)
			}
			if l.Admin != nil {
				data["Admin"] = l.Admin.IsUnlocked(ctx, sid)
			}
		}
	}
	if _, ok := data["CartCount"]; !ok {
		data["CartCount"] = 0
	}
	return c.Render(tmpl, data)
}

func (l *Layout) flash(c *fiber.Ctx, sid, msg string) {
	if l == nil || l.Flash == nil {
		return
	}
	l.Flash.Set(c.UserContext(), sid, msg)
}

// notFound renders the shared message page.
func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": msg})
}
