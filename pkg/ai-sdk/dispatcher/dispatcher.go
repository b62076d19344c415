package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/tool"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/rs/zerolog/log"
)

// NoMatchingToolMessage is returned when the model asks for a tool that is not registered.
const NoMatchingToolMessage = "No matching tool found."

// Dispatcher answers a single query: the model either replies with text or
// names one tool, which is then executed. It keeps no state between queries.
type Dispatcher struct {
	Model        provider.LanguageModel
	Tools        []tool.Tool
	SystemPrompt string
	Temperature  *float32

	toolsByName map[string]tool.Tool
	descriptors []types.Tool

	hooks Hooks
}

type Hooks struct {
	OnBeforeGenerate   func(ctx context.Context, req *provider.GenerateRequest)
	OnGenerationFailed func(ctx context.Context, req *provider.GenerateRequest, err error)

	OnToolCallStart    func(ctx context.Context, toolCall types.ToolCall)
	OnToolCallComplete func(ctx context.Context, toolCall types.ToolCall, result string, err error)
}

// Reply is the outcome of one dispatch. ToolCall is nil when the model
// answered directly.
type Reply struct {
	Content  string          `json:"content"`
	ToolCall *types.ToolCall `json:"tool_call,omitempty"`
	Usage    types.Usage     `json:"usage"`
	Model    string          `json:"model"`
}

// ToolName returns the name of the invoked tool, or an empty string.
func (r Reply) ToolName() string {
	if r.ToolCall == nil {
		return ""
	}

	return r.ToolCall.Name
}

func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{}

	for _, opt := range opts {
		opt(d)
	}

	if d.Model == nil {
		return nil, types.ErrProviderNotSet
	}

	if len(d.Tools) > 0 && !d.Model.Capabilities().SupportsTools {
		return nil, fmt.Errorf("%w: %s", types.ErrToolsNotSupported, d.Model.ID())
	}

	d.toolsByName = make(map[string]tool.Tool, len(d.Tools))
	d.descriptors = make([]types.Tool, 0, len(d.Tools))

	for _, t := range d.Tools {
		if _, exists := d.toolsByName[t.Name()]; exists {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateTool, t.Name())
		}

		d.toolsByName[t.Name()] = t
		d.descriptors = append(d.descriptors, tool.ToTypesTool(t))
	}

	return d, nil
}

// Dispatch sends the query to the model and acts on its answer. Only the
// first requested tool call is executed; provider and tool errors are
// returned to the caller without retry.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) (Reply, error) {
	genReq := provider.GenerateRequest{
		Messages:    []types.Message{types.UserMessage(query)},
		System:      d.SystemPrompt,
		Tools:       d.descriptors,
		Temperature: d.Temperature,
	}

	d.OnBeforeGenerate(ctx, &genReq)

	resp, err := d.Model.Generate(ctx, genReq)
	if err != nil {
		d.OnGenerationFailed(ctx, &genReq, err)

		return Reply{}, fmt.Errorf("failed to generate response: %w", err)
	}

	if resp == nil {
		d.OnGenerationFailed(ctx, &genReq, types.ErrEmptyResponse)

		return Reply{}, types.ErrEmptyResponse
	}

	reply := Reply{
		Content: resp.Content,
		Usage:   resp.Usage,
		Model:   resp.Model,
	}

	toolCall, ok := resp.FirstToolCall()
	if !ok {
		log.Debug().Str("model", d.Model.ID()).Msg("Model answered without a tool call")

		return reply, nil
	}

	if len(resp.ToolCalls) > 1 {
		log.Debug().
			Int("tool_calls", len(resp.ToolCalls)).
			Str("tool_name", toolCall.Name).
			Msg("Model requested several tools, using the first")
	}

	reply.ToolCall = &toolCall

	content, err := d.HandleToolCall(ctx, toolCall)
	if err != nil {
		return Reply{}, err
	}

	reply.Content = content

	return reply, nil
}

// HandleToolCall resolves the tool by name and runs it with the call's arguments.
func (d *Dispatcher) HandleToolCall(ctx context.Context, toolCall types.ToolCall) (string, error) {
	t, exists := d.GetTool(toolCall.Name)
	if !exists {
		log.Warn().Str("tool_name", toolCall.Name).Msg("Model requested an unknown tool")

		return NoMatchingToolMessage, nil
	}

	d.OnToolCallStart(ctx, toolCall)

	arguments := toolCall.Arguments
	if arguments == nil {
		arguments = map[string]any{}
	}

	argsJSON, err := json.Marshal(arguments)
	if err != nil {
		err = fmt.Errorf("failed to marshal tool call arguments: %w", err)
		d.OnToolCallComplete(ctx, toolCall, "", err)

		return "", err
	}

	log.Debug().
		Str("tool_name", toolCall.Name).
		Str("tool_call_id", toolCall.ID).
		Msg("Executing tool")

	content, err := t.Execute(ctx, string(argsJSON))
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", types.ErrToolExecutionFailed, toolCall.Name, err)
		d.OnToolCallComplete(ctx, toolCall, "", err)

		return "", err
	}

	d.OnToolCallComplete(ctx, toolCall, content, nil)

	return content, nil
}

func (d *Dispatcher) GetTool(toolName string) (tool.Tool, bool) {
	t, exists := d.toolsByName[toolName]
	return t, exists
}

// Descriptors returns the tool descriptors offered to the model.
func (d *Dispatcher) Descriptors() []types.Tool {
	return append([]types.Tool(nil), d.descriptors...)
}

func (d *Dispatcher) OnBeforeGenerate(ctx context.Context, req *provider.GenerateRequest) {
	if d.hooks.OnBeforeGenerate != nil {
		d.hooks.OnBeforeGenerate(ctx, req)
	}
}

func (d *Dispatcher) OnGenerationFailed(ctx context.Context, req *provider.GenerateRequest, err error) {
	if d.hooks.OnGenerationFailed != nil {
		d.hooks.OnGenerationFailed(ctx, req, err)
	}
}

func (d *Dispatcher) OnToolCallStart(ctx context.Context, toolCall types.ToolCall) {
	if d.hooks.OnToolCallStart != nil {
		d.hooks.OnToolCallStart(ctx, toolCall)
	}
}

func (d *Dispatcher) OnToolCallComplete(ctx context.Context, toolCall types.ToolCall, result string, err error) {
	if d.hooks.OnToolCallComplete != nil {
		d.hooks.OnToolCallComplete(ctx, toolCall, result, err)
	}
}
