// Package mock provides a scripted LanguageModel for tests and offline runs.
package mock

import (
	"context"
	"sync"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
)

type Config struct {
	ResponseText  string
	ToolCalls     []types.ToolCall
	Err           error
	NoToolSupport bool
}

// Model returns the configured response and records every request it receives.
type Model struct {
	cfg Config

	mu       sync.Mutex
	requests []provider.GenerateRequest
}

func New(cfg Config) *Model {
	return &Model{cfg: cfg}
}

func (m *Model) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.cfg.Err != nil {
		return nil, m.cfg.Err
	}

	finishReason := types.FinishReasonStop
	if len(m.cfg.ToolCalls) > 0 {
		finishReason = types.FinishReasonToolCalls
	}

	return &types.GenerateResponse{
		Content:      m.cfg.ResponseText,
		ToolCalls:    m.cfg.ToolCalls,
		FinishReason: finishReason,
		Model:        "mock",
	}, nil
}

func (m *Model) ID() string { return "mock:mock" }

func (m *Model) Capabilities() provider.Capabilities {
	return provider.Capabilities{SupportsTools: !m.cfg.NoToolSupport}
}

// Requests returns a copy of the requests seen so far.
func (m *Model) Requests() []provider.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]provider.GenerateRequest(nil), m.requests...)
}
