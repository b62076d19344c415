package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowbaker/order-assistant/internal/initialization"
	"github.com/flowbaker/order-assistant/internal/server"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant over HTTP",
		Long:  `Start an HTTP server exposing GET /health and POST /ask.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("address", "", "Listen address (defaults to HTTP_ADDRESS or :8080)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.HTTPAddress = address
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	deps, err := initialization.BuildAssistantDependencies(ctx, initialization.AssistantDependencyConfig{
		Config: cfg,
	})
	if err != nil {
		return err
	}

	app := server.NewHTTPServer(ctx, server.HTTPServerDependencies{
		AssistantController: deps.AssistantController,
		APIToken:            cfg.APIToken,
	})

	log.Info().Str("address", cfg.HTTPAddress).Msg("Starting assistant HTTP server")

	if err := app.Listen(cfg.HTTPAddress, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	}); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}

	log.Info().Msg("Assistant HTTP server stopped")
	return nil
}
