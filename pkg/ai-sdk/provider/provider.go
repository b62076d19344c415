package provider

import (
	"context"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
)

// LanguageModel defines the interface that all LLM providers must implement
type LanguageModel interface {
	// Generate produces a complete response (blocking)
	Generate(ctx context.Context, req GenerateRequest) (*types.GenerateResponse, error)

	// ID returns the unique identifier for this model
	ID() string

	// Capabilities returns the capabilities of this model
	Capabilities() Capabilities
}

// GenerateRequest contains all parameters for generating text
type GenerateRequest struct {
	// Messages is the conversation to answer, a single user turn in practice
	Messages []types.Message `json:"messages"`

	// System is an optional system prompt
	System string `json:"system,omitempty"`

	// Tools is a list of tools available to the model
	Tools []types.Tool `json:"tools,omitempty"`

	// Temperature controls randomness. Nil leaves the provider default.
	Temperature *float32 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Capabilities describes what a model can do
type Capabilities struct {
	// SupportsTools indicates if the model supports function/tool calling
	SupportsTools bool `json:"supports_tools"`

	// MaxContextTokens is the maximum context window size
	MaxContextTokens int `json:"max_context_tokens"`

	// MaxOutputTokens is the maximum output tokens
	MaxOutputTokens int `json:"max_output_tokens"`
}

// Float32 returns a pointer to v, for optional request fields.
func Float32(v float32) *float32 {
	return &v
}
