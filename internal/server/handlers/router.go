// Package handlers exposes the Baby Steps REST API over fiber.
package handlers

import (
	"time"

	"github.com/dmitrijs2005/babysteps/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with every route mounted under /api.
func NewApp(s Services, secretKey string, l logging.Logger) *fiber.App {
	l = l.With("module", "http_server")

	app := fiber.New(fiber.Config{
		AppName:               "babysteps",
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(l),
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(l))

	api := app.Group("/api")
	api.Get("/health", HandleHealth)
	NewAuthHandler(s.Users).RegisterRoutes(api)

	protected := api.Group("", AuthRequired([]byte(secretKey)))
	NewUserHandler(s.Users).RegisterRoutes(protected)
	NewBabyHandler(s.Babies).RegisterRoutes(protected)
	NewActivityHandler(s.Activities).RegisterRoutes(protected)
	NewReminderHandler(s.Reminders).RegisterRoutes(protected)
	NewSettingsHandler(s.Settings).RegisterRoutes(protected)
	NewBackupHandler(s.Backups).RegisterRoutes(protected)

	return app
}

// HandleHealth is the liveness probe the client uses to detect connectivity.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}
