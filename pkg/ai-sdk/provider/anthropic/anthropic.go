package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
)

const DefaultModel = "claude-sonnet-4-5"

// Provider implements the LanguageModel interface for Anthropic Claude
type Provider struct {
	client anthropic.Client
	model  string
	config Config
}

// Config holds Anthropic-specific configuration
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPClient  *http.Client
	Temperature *float32
	MaxTokens   int
}

// New creates a new Anthropic provider
func New(apiKey, model string) *Provider {
	return NewWithConfig(Config{
		APIKey: apiKey,
		Model:  model,
	})
}

// NewWithConfig creates a new Anthropic provider with custom configuration.
// The SDK's built-in retries are disabled; a failed call surfaces immediately.
func NewWithConfig(config Config) *Provider {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	if config.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &Provider{
		client: anthropic.NewClient(opts...),
		model:  config.Model,
		config: config,
	}
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("anthropic:%s", p.model)
}

// Capabilities returns the model's capabilities
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		SupportsTools:    true,
		MaxContextTokens: 200000,
		MaxOutputTokens:  getMaxOutputTokens(p.model),
	}
}

func (p *Provider) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	messages, systemPrompt := convertMessages(req.Messages, req.System)

	msgReq := anthropic.MessageNewParams{
		Model:    anthropic.Model(p.model),
		Messages: messages,
	}

	if len(systemPrompt) > 0 {
		msgReq.System = systemPrompt
	}

	// Anthropic requires max_tokens
	switch {
	case req.MaxTokens > 0:
		msgReq.MaxTokens = int64(req.MaxTokens)
	case p.config.MaxTokens > 0:
		msgReq.MaxTokens = int64(p.config.MaxTokens)
	default:
		msgReq.MaxTokens = 4096
	}

	temperature := p.config.Temperature
	if req.Temperature != nil {
		temperature = req.Temperature
	}
	if temperature != nil {
		msgReq.Temperature = anthropic.Float(float64(*temperature))
	}

	if tools := convertTools(req.Tools); len(tools) > 0 {
		msgReq.Tools = tools
	}

	resp, err := p.client.Messages.New(ctx, msgReq)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	response := &types.GenerateResponse{
		Model:        string(resp.Model),
		FinishReason: mapStopReason(resp.StopReason),
		Usage: types.Usage{
			PromptTokens:      int(resp.Usage.InputTokens),
			CompletionTokens:  int(resp.Usage.OutputTokens),
			TotalTokens:       int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
			CachedInputTokens: int(resp.Usage.CacheReadInputTokens),
		},
	}

	var textContent strings.Builder

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textContent.WriteString(block.Text)
		case "tool_use":
			args := make(map[string]any)
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, fmt.Errorf("%w: %s: %w", types.ErrInvalidToolArguments, block.Name, err)
				}
			}
			response.ToolCalls = append(response.ToolCalls, types.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	response.Content = textContent.String()

	return response, nil
}

func convertMessages(messages []types.Message, systemPrompt string) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	var systemTexts []string
	if systemPrompt != "" {
		systemTexts = append(systemTexts, systemPrompt)
	}

	for _, msg := range messages {
		switch msg.Role {
		case types.RoleSystem:
			systemTexts = append(systemTexts, msg.Content)
		case types.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	var system []anthropic.TextBlockParam
	if len(systemTexts) > 0 {
		system = []anthropic.TextBlockParam{{Text: strings.Join(systemTexts, "\n\n")}}
	}

	return result, system
}

// convertTools converts SDK tools to Anthropic format
func convertTools(tools []types.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: tool.Parameters["properties"],
		}

		switch required := tool.Parameters["required"].(type) {
		case []any:
			for _, r := range required {
				if s, ok := r.(string); ok {
					inputSchema.Required = append(inputSchema.Required, s)
				}
			}
		case []string:
			inputSchema.Required = required
		}

		extra := make(map[string]any)
		for key, value := range tool.Parameters {
			if key != "type" && key != "properties" && key != "required" {
				extra[key] = value
			}
		}
		if len(extra) > 0 {
			inputSchema.ExtraFields = extra
		}

		toolParam := anthropic.ToolParam{
			Name:        tool.Name,
			Description: anthropic.String(tool.Description),
			InputSchema: inputSchema,
		}

		result[i] = anthropic.ToolUnionParam{
			OfTool: &toolParam,
		}
	}
	return result
}

func mapStopReason(reason anthropic.StopReason) string {
	switch reason {
	case anthropic.StopReasonToolUse:
		return types.FinishReasonToolCalls
	case anthropic.StopReasonMaxTokens:
		return types.FinishReasonLength
	default:
		return types.FinishReasonStop
	}
}

// getMaxOutputTokens returns the maximum output tokens for a model
func getMaxOutputTokens(model string) int {
	if strings.Contains(model, "claude-3-5") ||
		strings.Contains(model, "claude-sonnet-4") ||
		strings.Contains(model, "claude-opus-4") {
		return 8192
	}
	return 4096
}
