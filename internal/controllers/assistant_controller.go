package controllers

import (
	"errors"

	"github.com/flowbaker/order-assistant/internal/domain"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// AssistantController exposes the assistant over HTTP
type AssistantController struct {
	assistantService domain.AssistantService
}

type AssistantControllerDependencies struct {
	AssistantService domain.AssistantService
}

func NewAssistantController(deps AssistantControllerDependencies) *AssistantController {
	return &AssistantController{
		assistantService: deps.AssistantService,
	}
}

type AskRequest struct {
	Query string `json:"query"`
}

type AskResponse struct {
	Answer string `json:"answer"`
	Tool   string `json:"tool"`
}

type WarningResponse struct {
	Warning string `json:"warning"`
}

// Ask answers a single query
func (c *AssistantController) Ask(ctx fiber.Ctx) error {
	var req AskRequest

	if err := ctx.Bind().Body(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := c.assistantService.Ask(ctx.RequestCtx(), domain.AskParams{Query: req.Query})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyQuery) {
			return ctx.Status(fiber.StatusBadRequest).JSON(WarningResponse{Warning: domain.EmptyQueryWarning})
		}

		log.Error().Err(err).Msg("Failed to process query")

		return fiber.NewError(fiber.StatusInternalServerError, "Failed to process query")
	}

	return ctx.JSON(AskResponse{
		Answer: result.Answer,
		Tool:   result.ToolName,
	})
}
