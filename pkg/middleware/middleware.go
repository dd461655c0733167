package middleware

import "github.com/gofiber/fiber/v2"

type Middleware interface {
	Middleware() fiber.Handler
}

type Transport struct {
	PanicRecoverMiddleware Middleware
	RequestLogMiddleware   Middleware
}

func (t *Transport) GetMiddlewares() []fiber.Handler {
	return []fiber.Handler{
		t.PanicRecoverMiddleware.Middleware(),
		t.RequestLogMiddleware.Middleware(),
	}
}
