package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "storefront/internal/log"
)

// ErrorHandler logs the failure and renders a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		fe = e
		code = fe.Code
	}
	if code == fiber.StatusNotFound {
		return notFound(c, "Page not found")
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	msg := msgGeneric
	if fe != nil && code < fiber.StatusInternalServerError {
		msg = fe.Message
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// CSRF is the double-submit token check every form post goes through.
func CSRF(secure bool) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"form": c.FormValue("csrf")})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	})
}

// CSRFLocals exposes the token the CSRF middleware generated to templates.
func CSRFLocals(c *fiber.Ctx) error {
	if tok, ok := c.Locals("csrf").(string); ok && tok != "" {
		c.Locals("CSRFToken", tok)
	}
	return c.Next()
}

// Routes mounts the storefront pages, the admin editor and the JSON endpoints.
func Routes(app *fiber.App, d *Deps) {
	app.Get("/", d.CatalogHandler.Home)
	app.Get("/product", func(c *fiber.Ctx) error { return notFound(c, msgItemUnavailable) })
	app.Get("/product/:id", d.CatalogHandler.Detail)

	// Cart & checkout
	app.Get("/cart", d.CartHandler.View)
	app.Post("/cart", d.CartHandler.Add)
	app.Post("/cart/update", d.CartHandler.Update)
	app.Post("/cart/remove", d.CartHandler.Remove)
	app.Get("/checkout", d.CheckoutHandler.View)
	app.Post("/checkout/proceed", d.CheckoutHandler.Proceed)
	app.Post("/checkout/cancel", d.CheckoutHandler.Cancel)
	app.Post("/checkout/place", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.checkout.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("notfound", fiber.Map{"Message": "Too many attempts. Please try again later."})
		},
	}), d.CheckoutHandler.Place)
	app.Get("/order-success", d.CheckoutHandler.Success)

	// API
	api := app.Group("/api/v1")
	api.Get("/cart/count", d.CartHandler.Count)
	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/availability", availLimiter, d.InventoryHandler.Check)

	// Admin gate (code attempts throttled)
	app.Get("/admin/login", d.AuthHandler.LoginForm)
	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.admin.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("admin_login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/admin/logout", d.AuthHandler.Logout)

	admin := app.Group("/admin", RequireAdmin(d.Admin))
	admin.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/admin/inventory") })
	admin.Get("/inventory", d.AdminHandler.Inventory)
	admin.Post("/products", d.AdminHandler.SaveProduct)
	admin.Post("/products/:id/delete", d.AdminHandler.DeleteProduct)
}

// StaticSkip keeps static assets out of the global rate limit.
func StaticSkip(c *fiber.Ctx) bool {
	p := string(c.Request().URI().Path())
	return strings.HasPrefix(p, "/static/") || p == "/metrics" || p == "/healthz"
}
