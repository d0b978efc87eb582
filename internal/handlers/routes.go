package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, matchHandler *MatchHandler, resultHandler *ResultHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/status", matchHandler.HandleStatus)
	api.Post("/match", matchHandler.HandleMatch)
	api.Get("/results", resultHandler.HandleListResults)
	api.Get("/result/:id", resultHandler.HandleGetResult)
	api.Get("/result/:id/report.csv", resultHandler.HandleDownloadReport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/status",
				"POST /api/v1/match",
				"GET /api/v1/results",
				"GET /api/v1/result/:id",
				"GET /api/v1/result/:id/report.csv",
			},
		})
	})
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
