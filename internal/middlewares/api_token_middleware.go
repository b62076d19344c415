package middlewares

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

const bearerPrefix = "Bearer "

// APITokenMiddleware rejects requests whose Authorization header does not
// carry the configured bearer token.
func APITokenMiddleware(token string) fiber.Handler {
	expected := []byte(token)

	return func(c fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			log.Warn().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("Request without bearer token rejected")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API token",
			})
		}

		provided := []byte(strings.TrimPrefix(header, bearerPrefix))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			log.Warn().
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("API token verification failed")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid API token",
			})
		}

		return c.Next()
	}
}
