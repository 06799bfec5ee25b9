package handlers_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/http/handlers"
)

// Friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})

	entries := captureLogs(t, func() {
		for _, path := range []string{"/err", "/boom"} {
			r, err := app.Test(httptest.NewRequest("GET", path, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusInternalServerError, r.StatusCode)
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), "Something went wrong")
			assert.NotContains(t, string(body), "db timeout")
			assert.NotContains(t, string(body), "secret")
		}
	})
	e, ok := findLog(entries, "server.error")
	require.True(t, ok, "server.error not logged")
	assert.Equal(t, "error", e.Level)
}

func TestUnknownRouteRendersNotFound(t *testing.T) {
	s := newStorefront(t)
	resp := s.get("/no/such/page", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Page not found")
}
