package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// Provider implements the LanguageModel interface for Google Gemini
type Provider struct {
	client *genai.Client

	RequestSettings RequestSettings
}

type RequestSettings struct {
	Model           string
	MaxOutputTokens int32
	Temperature     *float32
}

// Config holds the settings used to build a Gemini provider
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	HTTPClient  *http.Client
	Temperature *float32
}

// New creates a new Gemini provider
func New(ctx context.Context, apiKey, model string) (*Provider, error) {
	return NewWithConfig(ctx, Config{APIKey: apiKey, Model: model})
}

// NewWithConfig creates a new Gemini provider with custom configuration
func NewWithConfig(ctx context.Context, config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if config.Model == "" {
		config.Model = DefaultModel
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	}

	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Provider{
		client: client,
		RequestSettings: RequestSettings{
			Model:           config.Model,
			MaxOutputTokens: 4096,
			Temperature:     config.Temperature,
		},
	}, nil
}

// Generate implements the Generate method of the LanguageModel interface
func (p *Provider) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: p.RequestSettings.MaxOutputTokens,
	}

	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	temperature := p.RequestSettings.Temperature
	if req.Temperature != nil {
		temperature = req.Temperature
	}
	if temperature != nil {
		config.Temperature = genai.Ptr(*temperature)
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}

	tools := convertTools(req.Tools)
	if len(tools) > 0 {
		config.Tools = tools
	}

	contents := convertMessages(req.Messages)

	resp, err := p.client.Models.GenerateContent(ctx, p.RequestSettings.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates: %w", types.ErrEmptyResponse)
	}

	candidate := resp.Candidates[0]

	response := &types.GenerateResponse{
		FinishReason: mapFinishReason(candidate.FinishReason),
		Model:        p.RequestSettings.Model,
	}

	if resp.UsageMetadata != nil {
		response.Usage = types.Usage{
			PromptTokens:      int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens:  int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:       int(resp.UsageMetadata.TotalTokenCount),
			ReasoningTokens:   int(resp.UsageMetadata.ThoughtsTokenCount),
			CachedInputTokens: int(resp.UsageMetadata.CachedContentTokenCount),
		}
	}

	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				response.Content += part.Text
			}
			if part.FunctionCall != nil {
				// Gemini doesn't provide IDs
				id := part.FunctionCall.ID
				if id == "" {
					id = uuid.New().String()
				}

				response.ToolCalls = append(response.ToolCalls, types.ToolCall{
					ID:        id,
					Name:      part.FunctionCall.Name,
					Arguments: part.FunctionCall.Args,
				})
			}
		}
	}

	if len(response.ToolCalls) > 0 {
		response.FinishReason = types.FinishReasonToolCalls
	}

	return response, nil
}

// ID returns the model identifier
func (p *Provider) ID() string {
	return fmt.Sprintf("gemini:%s", p.RequestSettings.Model)
}

// Capabilities returns the model's capabilities
func (p *Provider) Capabilities() provider.Capabilities {
	return provider.Capabilities{
		SupportsTools:    true,
		MaxContextTokens: getMaxContextTokens(p.RequestSettings.Model),
		MaxOutputTokens:  getMaxOutputTokens(p.RequestSettings.Model),
	}
}

// convertMessages converts types.Message to Gemini content format
func convertMessages(messages []types.Message) []*genai.Content {
	var result []*genai.Content

	for _, msg := range messages {
		// System messages go through SystemInstruction
		if msg.Role == types.RoleSystem || msg.Content == "" {
			continue
		}

		role := genai.RoleUser
		if msg.Role == types.RoleAssistant {
			role = genai.RoleModel
		}

		result = append(result, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}

	return result
}

// convertTools converts types.Tool to Gemini tool format
func convertTools(tools []types.Tool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	var functionDeclarations []*genai.FunctionDeclaration
	for _, tool := range tools {
		functionDeclarations = append(functionDeclarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  convertParametersToSchema(tool.Parameters),
		})
	}

	return []*genai.Tool{{
		FunctionDeclarations: functionDeclarations,
	}}
}

// convertParametersToSchema converts a JSON schema map to genai.Schema
func convertParametersToSchema(params map[string]any) *genai.Schema {
	if params == nil {
		return nil
	}

	schema := &genai.Schema{
		Type: genai.TypeObject,
	}

	if typeVal, ok := params["type"].(string); ok {
		schema.Type = mapSchemaType(typeVal)
	}

	if desc, ok := params["description"].(string); ok {
		schema.Description = desc
	}

	if props, ok := params["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema)
		for name, propVal := range props {
			if propMap, ok := propVal.(map[string]any); ok {
				schema.Properties[name] = convertParametersToSchema(propMap)
			}
		}
	}

	switch required := params["required"].(type) {
	case []any:
		for _, r := range required {
			if str, ok := r.(string); ok {
				schema.Required = append(schema.Required, str)
			}
		}
	case []string:
		schema.Required = append(schema.Required, required...)
	}

	if items, ok := params["items"].(map[string]any); ok {
		schema.Items = convertParametersToSchema(items)
	}

	if enumVals, ok := params["enum"].([]any); ok {
		for _, e := range enumVals {
			if str, ok := e.(string); ok {
				schema.Enum = append(schema.Enum, str)
			}
		}
	}

	return schema
}

// mapSchemaType converts JSON schema type to genai.Type
func mapSchemaType(t string) genai.Type {
	switch t {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// mapFinishReason maps Gemini finish reasons to standard format
func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonMaxTokens:
		return types.FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return types.FinishReasonContentFilter
	default:
		return types.FinishReasonStop
	}
}

func getMaxContextTokens(model string) int {
	contextLimits := map[string]int{
		"gemini-2.5-pro":        1048576,
		"gemini-2.5-flash":      1048576,
		"gemini-2.5-flash-lite": 1048576,
		"gemini-2.0-flash":      1048576,
		"gemini-2.0-flash-lite": 1048576,
	}
	if limit, ok := contextLimits[model]; ok {
		return limit
	}
	return 1048576
}

func getMaxOutputTokens(model string) int {
	outputLimits := map[string]int{
		"gemini-2.5-pro":        65536,
		"gemini-2.5-flash":      65536,
		"gemini-2.5-flash-lite": 65536,
		"gemini-2.0-flash":      8192,
		"gemini-2.0-flash-lite": 8192,
	}
	if limit, ok := outputLimits[model]; ok {
		return limit
	}
	return 8192
}
