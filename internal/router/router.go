package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/course-progress-api/internal/config"
	"github.com/noah-isme/course-progress-api/internal/handler"
	"github.com/noah-isme/course-progress-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseProgressHandler *handler.CourseProgressHandler
	ReminderHandler       *handler.ReminderHandler
	SeedHandler           *handler.SeedHandler
	JWTMiddleware         fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Course progress reports and point status queries
	if deps.CourseProgressHandler != nil {
		courses := app.Group("/api/v2/courses", jwtMiddleware)
		deps.CourseProgressHandler.Register(courses)
	}

	// Admin reminder sweep trigger and audit listing
	if deps.ReminderHandler != nil {
		reminders := app.Group("/api/admin/reminders", jwtMiddleware)
		deps.ReminderHandler.Register(reminders)
	}

	// Demo data loading, token gated instead of JWT gated
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(app.Group("/api/seed"))
	}
}
