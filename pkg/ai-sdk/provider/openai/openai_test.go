package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWithConfig(Config{
		APIKey:     "test-key",
		Model:      "gpt-4o-mini",
		BaseURL:    srv.URL + "/v1",
		HTTPClient: srv.Client(),
	})
}

func TestProvider_Generate(t *testing.T) {
	tests := []struct {
		name          string
		response      string
		wantContent   string
		wantToolNames []string
		wantFinish    string
		wantErr       error
	}{
		{
			name: "text answer",
			response: `{"id":"chatcmpl-1","model":"gpt-4o-mini","choices":[{"index":0,
				"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}],
				"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`,
			wantContent: "Hi there",
			wantFinish:  types.FinishReasonStop,
		},
		{
			name: "tool calls",
			response: `{"id":"chatcmpl-2","model":"gpt-4o-mini","choices":[{"index":0,
				"message":{"role":"assistant","content":"","tool_calls":[
					{"id":"call_1","type":"function","function":{"name":"Order_Status","arguments":"{\"order_id\":\"ORD456\"}"}},
					{"id":"call_2","type":"function","function":{"name":"Shipping_Cost","arguments":"{\"destination\":\"india\",\"weight\":1}"}}
				]},"finish_reason":"tool_calls"}]}`,
			wantToolNames: []string{"Order_Status", "Shipping_Cost"},
			wantFinish:    types.FinishReasonToolCalls,
		},
		{
			name: "malformed arguments",
			response: `{"id":"chatcmpl-3","model":"gpt-4o-mini","choices":[{"index":0,
				"message":{"role":"assistant","tool_calls":[
					{"id":"call_1","type":"function","function":{"name":"Order_Status","arguments":"{not json"}}
				]},"finish_reason":"tool_calls"}]}`,
			wantErr: types.ErrInvalidToolArguments,
		},
		{
			name:     "no choices",
			response: `{"id":"chatcmpl-4","model":"gpt-4o-mini","choices":[]}`,
			wantErr:  types.ErrEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received map[string]any
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/chat/completions", r.URL.Path)
				assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
				require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.response))
			})

			resp, err := p.Generate(context.Background(), provider.GenerateRequest{
				Messages:    []types.Message{types.UserMessage("where is ORD456")},
				System:      "You are a helpful assistant.",
				Temperature: provider.Float32(0.7),
				Tools: []types.Tool{{
					Name:       "Order_Status",
					Parameters: map[string]any{"type": "object"},
				}},
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantContent, resp.Content)
			assert.Equal(t, tt.wantFinish, resp.FinishReason)

			var names []string
			for _, tc := range resp.ToolCalls {
				names = append(names, tc.Name)
			}
			assert.Equal(t, tt.wantToolNames, names)

			messages, ok := received["messages"].([]any)
			require.True(t, ok)
			assert.Len(t, messages, 2)
			assert.Len(t, received["tools"], 1)
		})
	}
}

func TestProvider_Generate_ToolArguments(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"Shipping_Cost","arguments":"{\"destination\":\"india\",\"weight\":2}"}}
		]},"finish_reason":"tool_calls"}]}`))
	})

	resp, err := p.Generate(context.Background(), provider.GenerateRequest{
		Messages: []types.Message{types.UserMessage("ship 2kg to india")},
	})
	require.NoError(t, err)

	call, ok := resp.FirstToolCall()
	require.True(t, ok)
	assert.Equal(t, "call_1", call.ID)
	assert.Equal(t, "india", call.Arguments["destination"])
	assert.InDelta(t, 2.0, call.Arguments["weight"], 0.0001)
}

func TestProvider_Generate_APIError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`))
	})

	_, err := p.Generate(context.Background(), provider.GenerateRequest{
		Messages: []types.Message{types.UserMessage("hi")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api error")
}

func TestProvider_ID(t *testing.T) {
	p := New("key", "")
	assert.Equal(t, "openai:gpt-4o-mini", p.ID())
	assert.True(t, p.Capabilities().SupportsTools)
}
