package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	app.Get("/healthz", handlers.Health)

	api := app.Group("/api")

	// Tweet view - mirrors the Twitter URL structure
	// Example: /api/acgfbr/status/2006396789411172607
	api.Get("/:username/status/:id", handlers.GetStatus)

	// Resolve a pasted status URL to the canonical API path
	api.Post("/resolve", handlers.ResolveStatus)

	// Relationship lists
	api.Get("/:username/followers", handlers.GetFollowers)
	api.Get("/:username/following", handlers.GetFollowing)
}
