package domain

import (
	"context"
	"errors"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
)

const EmptyQueryWarning = "Please enter a query."

var ErrEmptyQuery = errors.New("empty query")

type AssistantService interface {
	Ask(ctx context.Context, params AskParams) (AskResult, error)
}

type AskParams struct {
	Query string
}

type AskResult struct {
	Answer   string
	ToolName string
	Usage    types.Usage
}

// AnsweredByTool reports whether the answer came from a tool rather than the model.
func (r AskResult) AnsweredByTool() bool {
	return r.ToolName != ""
}
