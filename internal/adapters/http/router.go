package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"

	"github.com/hanamagouda9611/map-poi-app/internal/pkg/metrics"
)

// RouterConfig carries the HTTP settings that are not service dependencies.
type RouterConfig struct {
	CORSOrigins string // comma-separated, "*" allows any origin
}

// SetupRoutes registers the REST, GraphQL, WebSocket and operational routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, cfg RouterConfig) {
	app.Use(recover.New())

	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Security headers
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	app.Get("/health", HealthHandler())
	app.Get("/ready", ReadyHandler(deps))

	api := app.Group("/api")
	api.Get("/pois", ListPOIsHandler(deps))
	api.Post("/pois", CreatePOIHandler(deps))
	api.Get("/pois/:id", GetPOIHandler(deps))
	api.Put("/pois/:id", UpdatePOIHandler(deps))
	api.Delete("/pois/:id", DeletePOIHandler(deps))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	// WebSocket relay of POI change events; only when NATS is configured.
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
