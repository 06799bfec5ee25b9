package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// ensureSID returns the session id, minting the cookie on first visit.
func ensureSID(c *fiber.Ctx) string {
	// Cookies are zero-copy views of the request buffer; the id outlives the request.
	sid := utils.CopyString(c.Cookies("sid"))
	if sid == "" {
		sid, _ = c.Locals("sid").(string)
	}
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	// later reads in this request see it even though the cookie is only on the response
	c.Locals("sid", sid)
	return sid
}
