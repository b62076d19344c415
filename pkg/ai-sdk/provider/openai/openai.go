package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT4oMini

// Provider implements the LanguageModel interface for OpenAI
type Provider struct {
	client *openai.Client

	RequestSettings RequestSettings
}

type RequestSettings struct {
	Model       string
	Temperature *float32
	MaxTokens   int
}

// Config holds the settings used to build an OpenAI provider
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPClient  *http.Client
	Temperature *float32
	MaxTokens   int
}

// New creates a new OpenAI provider
func New(apiKey, model string) *Provider {
	return NewWithConfig(Config{APIKey: apiKey, Model: model})
}

// NewWithConfig creates a new OpenAI provider with custom configuration
func NewWithConfig(config Config) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)

	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		RequestSettings: RequestSettings{
			Model:       config.Model,
			Temperature: config.Temperature,
			MaxTokens:   config.MaxTokens,
		},
	}
}

// Generate implements the Generate method of the LanguageModel interface
func (p *Provider) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:    p.RequestSettings.Model,
		Messages: convertMessages(req.Messages, req.System),
		Tools:    convertTools(req.Tools),
	}

	temperature := p.RequestSettings.Temperature
	if req.Temperature != nil {
		temperature = req.Temperature
	}
	if temperature != nil {
		chatReq.Temperature = *temperature
	}

	maxTokens := p.RequestSettings.MaxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	if maxTokens > 0 {
		if isMaxCompletionTokensModel(p.RequestSettings.Model) {
			chatReq.MaxCompletionTokens = maxTokens
		} else {
			chatReq.MaxTokens = maxTokens
		}
	}

	log.Debug().Str("model", chatReq.Model).Int("tools", len(chatReq.Tools)).Msg("Sending chat completion request")

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, types.ErrEmptyResponse
	}

	choice := resp.Choices[0]
	response := &types.GenerateResponse{
		Content:      choice.Message.Content,
		FinishReason: mapFinishReason(choice.FinishReason),
		Model:        resp.Model,
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}

	if resp.Usage.CompletionTokensDetails != nil {
		response.Usage.ReasoningTokens = resp.Usage.CompletionTokensDetails.ReasoningTokens
	}
	if resp.Usage.PromptTokensDetails != nil {
		response.Usage.CachedInputTokens = resp.Usage.PromptTokensDetails.CachedTokens
	}

	for _, tc := range choice.Message.ToolCalls {
		var args map[string]any
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", types.ErrInvalidToolArguments, tc.Function.Name, err)
			}
		}

		response.ToolCalls = append(response.ToolCalls, types.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: args,
		})
	}

	return response, nil
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("openai:%s", p.RequestSettings.Model)
}

// Capabilities returns the model's capabilities
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		SupportsTools:    true,
		MaxContextTokens: getMaxContextTokens(p.RequestSettings.Model),
		MaxOutputTokens:  getMaxOutputTokens(p.RequestSettings.Model),
	}
}

func convertMessages(messages []types.Message, system string) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages)+1)

	if system != "" {
		result = append(result, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return result
}

func convertTools(tools []types.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}

	result := make([]openai.Tool, len(tools))
	for i, tool := range tools {
		result[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			},
		}
	}
	return result
}

func mapFinishReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonToolCalls, openai.FinishReasonFunctionCall:
		return types.FinishReasonToolCalls
	case openai.FinishReasonLength:
		return types.FinishReasonLength
	case openai.FinishReasonContentFilter:
		return types.FinishReasonContentFilter
	default:
		return types.FinishReasonStop
	}
}

var maxCompletionTokensModels = map[string]bool{
	"o1": true, "o1-mini": true, "o3": true, "o3-mini": true,
	"gpt-5": true, "gpt-5-mini": true, "gpt-5-nano": true,
}

func isMaxCompletionTokensModel(model string) bool {
	return maxCompletionTokensModels[model]
}

func getMaxContextTokens(model string) int {
	contextLimits := map[string]int{
		"gpt-5":         400000,
		"gpt-5-mini":    400000,
		"gpt-4o":        128000,
		"gpt-4o-mini":   128000,
		"gpt-3.5-turbo": 16385,
	}
	if limit, ok := contextLimits[model]; ok {
		return limit
	}
	return 8192
}

func getMaxOutputTokens(model string) int {
	outputLimits := map[string]int{
		"gpt-5":         128000,
		"gpt-5-mini":    128000,
		"gpt-4o":        4096,
		"gpt-4o-mini":   16384,
		"gpt-3.5-turbo": 4096,
	}
	if limit, ok := outputLimits[model]; ok {
		return limit
	}
	return 4096
}
