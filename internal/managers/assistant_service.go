package managers

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowbaker/order-assistant/internal/domain"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/dispatcher"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

type QueryDispatcher interface {
	Dispatch(ctx context.Context, query string) (dispatcher.Reply, error)
}

type assistantService struct {
	dispatcher QueryDispatcher
}

type AssistantServiceDependencies struct {
	Dispatcher QueryDispatcher
}

func NewAssistantService(deps AssistantServiceDependencies) domain.AssistantService {
	return &assistantService{
		dispatcher: deps.Dispatcher,
	}
}

// Ask rejects blank queries with domain.ErrEmptyQuery before the model is
// contacted. The query itself is forwarded untrimmed.
func (s *assistantService) Ask(ctx context.Context, params domain.AskParams) (domain.AskResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return domain.AskResult{}, domain.ErrEmptyQuery
	}

	logger := log.With().Str("query_id", xid.New().String()).Logger()
	logger.Debug().Str("query", params.Query).Msg("Dispatching query")

	reply, err := s.dispatcher.Dispatch(ctx, params.Query)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to dispatch query")

		return domain.AskResult{}, fmt.Errorf("failed to answer query: %w", err)
	}

	logger.Info().
		Str("tool_name", reply.ToolName()).
		Int("total_tokens", reply.Usage.TotalTokens).
		Msg("Query answered")

	return domain.AskResult{
		Answer:   reply.Content,
		ToolName: reply.ToolName(),
		Usage:    reply.Usage,
	}, nil
}
