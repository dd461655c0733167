package router

import (
	"net/http"
	"time"

	handlers "github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/handlers/http"
	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	HealthPath     = "/health"
	PingPath       = "/__/ping"
	CheckInputPath = "/check-input"
	VersionPath    = "/api/v1/version"
)

type firewallRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
}

func NewFirewallRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
) ServerRouter {
	return &firewallRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
	}
}

func (r *firewallRouter) BuildRoutes(router *fiber.App) error {
	router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	for _, m := range r.middlewareTransport.GetMiddlewares() {
		router.Use(m)
	}

	router.Get(VersionPath, r.handlerTransport.GetVersionHandler.Handle)
	router.Post(CheckInputPath, r.handlerTransport.CheckInputHandler.Handle)

	return nil
}
