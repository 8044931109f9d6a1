package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/hanamagouda9611/map-poi-app/internal/pkg/logging"
)

// RequestIDLogMiddleware stores a request-scoped *slog.Logger, tagged with
// the Fiber request ID, in the user context. The service and store layers
// retrieve it with logging.FromContext.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ridStr, _ := c.Locals("requestid").(string)
		if ridStr == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", ridStr)
		c.SetUserContext(logging.WithLogger(c.UserContext(), reqLogger))

		return c.Next()
	}
}
