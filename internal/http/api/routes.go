package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// NewApp builds the product API on db. It speaks the same REST contract the
// storefront expects from its remote backend. mw runs after request ids are assigned.
func NewApp(db *sqlx.DB, mw ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code, msg := fiber.StatusInternalServerError, fiber.ErrInternalServerError.Message
			if fe, ok := err.(*fiber.Error); ok && fe.Code < fiber.StatusInternalServerError {
				code, msg = fe.Code, fe.Message
			}
			if code >= fiber.StatusInternalServerError {
				applog.Error(c, "api.error", err, nil)
			}
			return c.Status(code).JSON(fiber.Map{"error": msg})
		},
	})
	app.Use(requestid.New())
	for _, h := range mw {
		app.Use(h)
	}

	products := &ProductHandler{Repo: repos.NewProductRepo(db)}
	orders := &OrderHandler{Repo: repos.NewOrderRepo(db)}

	app.Get("/products", products.List)
	app.Post("/products", products.Create)
	app.Get("/products/:id", products.Get)
	app.Put("/products/:id", products.Replace)
	app.Patch("/products/:id", products.Patch)
	app.Delete("/products/:id", products.Delete)

	app.Get("/orders", orders.List)
	app.Post("/orders", orders.Create)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	return app
}
