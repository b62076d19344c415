package server

import (
	"context"
	"time"

	"github.com/flowbaker/order-assistant/internal/controllers"
	"github.com/flowbaker/order-assistant/internal/middlewares"
	"github.com/flowbaker/order-assistant/internal/version"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/rs/zerolog/log"
)

type HTTPServerDependencies struct {
	AssistantController *controllers.AssistantController
	APIToken            string
	DisableRequestLog   bool
}

func NewHTTPServer(ctx context.Context, deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName: "order-assistant",
	})

	router.Use(cors.New())
	if !deps.DisableRequestLog {
		router.Use(logger.New())
	}

	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   "order-assistant",
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	if deps.AssistantController == nil {
		log.Fatal().Msg("Assistant controller is nil, please build the server with an assistant controller")
	}

	ask := router.Group("/ask")
	if deps.APIToken != "" {
		ask.Use(middlewares.APITokenMiddleware(deps.APIToken))
	} else {
		log.Warn().Msg("ASSISTANT_API_TOKEN not set, /ask accepts unauthenticated requests")
	}

	ask.Post("", deps.AssistantController.Ask)

	return router
}
