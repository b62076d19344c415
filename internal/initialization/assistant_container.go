package initialization

import (
	"context"
	"fmt"

	"github.com/flowbaker/order-assistant/internal/config"
	"github.com/flowbaker/order-assistant/internal/controllers"
	"github.com/flowbaker/order-assistant/internal/domain"
	"github.com/flowbaker/order-assistant/internal/managers"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/dispatcher"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider/anthropic"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider/gemini"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider/openai"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/tool"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/flowbaker/order-assistant/pkg/clients/tavily"
	"github.com/flowbaker/order-assistant/pkg/integrations/orderstatus"
	"github.com/flowbaker/order-assistant/pkg/integrations/shippingcost"
	"github.com/flowbaker/order-assistant/pkg/integrations/websearch"

	"github.com/rs/zerolog/log"
)

type AssistantDependencies struct {
	Model               provider.LanguageModel
	Dispatcher          *dispatcher.Dispatcher
	AssistantService    domain.AssistantService
	AssistantController *controllers.AssistantController
}

type AssistantDependencyConfig struct {
	Config *config.Config

	// Model and SearchClient replace the configured implementations when set
	Model        provider.LanguageModel
	SearchClient tavily.SearchClient
}

// BuildAssistantDependencies wires the model, tools, dispatcher and HTTP
// controller. The configuration must already be valid.
func BuildAssistantDependencies(ctx context.Context, deps AssistantDependencyConfig) (*AssistantDependencies, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	model := deps.Model
	if model == nil {
		var err error
		model, err = NewModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	searchClient := deps.SearchClient
	if searchClient == nil && cfg.SearchEnabled() {
		searchClient = tavily.NewClient(
			tavily.WithBaseURL(cfg.TavilyBaseURL),
			tavily.WithAPIKey(cfg.TavilyAPIKey),
		)
	}

	if !cfg.SearchEnabled() {
		log.Warn().Msg("TAVILY_API_KEY is not set, web search is disabled")
	}

	d, err := dispatcher.New(
		dispatcher.WithModel(model),
		dispatcher.WithTemperature(cfg.Temperature),
		dispatcher.WithTools(NewTools(searchClient, cfg.TavilyAPIKey)...),
		dispatcher.WithHooks(dispatcher.Hooks{
			OnGenerationFailed: func(ctx context.Context, req *provider.GenerateRequest, err error) {
				log.Error().Err(err).Str("model", model.ID()).Msg("Model generation failed")
			},
			OnToolCallComplete: func(ctx context.Context, toolCall types.ToolCall, result string, err error) {
				if err != nil {
					log.Error().Err(err).Str("tool_name", toolCall.Name).Msg("Tool execution failed")
					return
				}
				log.Debug().Str("tool_name", toolCall.Name).Msg("Tool execution completed")
			},
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	assistantService := managers.NewAssistantService(managers.AssistantServiceDependencies{
		Dispatcher: d,
	})

	assistantController := controllers.NewAssistantController(controllers.AssistantControllerDependencies{
		AssistantService: assistantService,
	})

	log.Info().Str("model", model.ID()).Int("tools", len(d.Tools)).Msg("Assistant ready")

	return &AssistantDependencies{
		Model:               model,
		Dispatcher:          d,
		AssistantService:    assistantService,
		AssistantController: assistantController,
	}, nil
}

// NewTools returns the fixed tool set offered to the model.
func NewTools(searchClient tavily.SearchClient, tavilyAPIKey string) []tool.Tool {
	return []tool.Tool{
		orderstatus.NewTool(),
		shippingcost.NewTool(),
		websearch.NewTool(websearch.Dependencies{
			Client: searchClient,
			APIKey: tavilyAPIKey,
		}),
	}
}

// NewModel builds the language model for the configured provider.
func NewModel(ctx context.Context, cfg *config.Config) (provider.LanguageModel, error) {
	temperature := provider.Float32(cfg.Temperature)

	switch cfg.Provider {
	case config.ProviderGemini:
		model, err := gemini.NewWithConfig(ctx, gemini.Config{
			APIKey:      cfg.GoogleAPIKey,
			Model:       cfg.Model,
			Temperature: temperature,
		})
		if err != nil {
			return nil, err
		}
		return model, nil
	case config.ProviderOpenAI:
		return openai.NewWithConfig(openai.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			Temperature: temperature,
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewWithConfig(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.Model,
			Temperature: temperature,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
}
