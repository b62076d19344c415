package types

// GenerateResponse represents a response from text generation
type GenerateResponse struct {
	Content      string     `json:"content"`
	ToolCalls    []ToolCall `json:"tool_calls,omitempty"`
	Usage        Usage      `json:"usage"`
	FinishReason string     `json:"finish_reason"`
	Model        string     `json:"model"`
}

// FirstToolCall returns the first requested tool call. Any further calls in
// the same response are ignored by callers.
func (r *GenerateResponse) FirstToolCall() (ToolCall, bool) {
	if r == nil || len(r.ToolCalls) == 0 {
		return ToolCall{}, false
	}

	return r.ToolCalls[0], true
}

// FinishReason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonToolCalls     = "tool_calls"
	FinishReasonContentFilter = "content_filter"
)
