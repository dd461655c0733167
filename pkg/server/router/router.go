package router

import "github.com/gofiber/fiber/v2"

// ServerRouter registers a route group on the fiber app.
type ServerRouter interface {
	BuildRoutes(app *fiber.App) error
}
