package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses unless the handler
// already did. POI reads are always revalidated so that a client re-fetch
// right after a mutation never sees a stale list; the ETag middleware keeps
// the revalidation cheap.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var value string
		switch {
		case strings.HasPrefix(path, "/api/pois"):
			value = "no-cache"
		case path == "/health" || path == "/ready" || path == "/metrics":
			value = "no-store"
		case strings.HasPrefix(path, "/docs"):
			value = "public, max-age=3600"
		}

		if value != "" {
			c.Set(fiber.HeaderCacheControl, value)
		}
		return err
	}
}
