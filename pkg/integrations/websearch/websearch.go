package websearch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/tool"
	"github.com/flowbaker/order-assistant/pkg/clients/tavily"
	"github.com/rs/zerolog/log"
)

const (
	ToolName        = "Tavily_Search"
	ToolDescription = "Tavily web search tool"

	MissingAPIKeyMessage = "Tavily API key not provided."

	MaxResults = 3
)

type Args struct {
	Query string `json:"query" jsonschema:"The search query"`
}

type Dependencies struct {
	Client tavily.SearchClient
	APIKey string
}

// Searcher forwards queries to Tavily. Without an API key it answers with
// MissingAPIKeyMessage and never touches the client.
type Searcher struct {
	client tavily.SearchClient
	apiKey string
}

func NewSearcher(deps Dependencies) *Searcher {
	return &Searcher{
		client: deps.Client,
		apiKey: deps.APIKey,
	}
}

// Search returns the result list as JSON. Provider errors are returned as is.
func (s *Searcher) Search(ctx context.Context, query string) (string, error) {
	if s.apiKey == "" || s.client == nil {
		return MissingAPIKeyMessage, nil
	}

	resp, err := s.client.Search(ctx, &tavily.SearchRequest{
		Query:      query,
		MaxResults: MaxResults,
	})
	if err != nil {
		if apiErr, ok := tavily.AsError(err); ok {
			log.Error().
				Int("status_code", apiErr.StatusCode).
				Bool("auth_error", apiErr.IsAuthError()).
				Bool("rate_limited", apiErr.IsRateLimited()).
				Str("request_id", apiErr.RequestID).
				Msg("Tavily rejected the search request")
		}

		return "", fmt.Errorf("web search failed: %w", err)
	}

	results := resp.Results
	if results == nil {
		results = []tavily.Result{}
	}

	log.Debug().Int("results", len(results)).Msg("Web search completed")

	encoded, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode search results: %w", err)
	}

	return string(encoded), nil
}

func NewTool(deps Dependencies) tool.Tool {
	searcher := NewSearcher(deps)

	return tool.MustDefineTyped(ToolName, ToolDescription, func(ctx context.Context, args Args) (string, error) {
		return searcher.Search(ctx, args.Query)
	})
}
