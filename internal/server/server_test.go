package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/flowbaker/order-assistant/internal/controllers"
	"github.com/flowbaker/order-assistant/internal/managers"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/dispatcher"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/provider/mock"
	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/flowbaker/order-assistant/pkg/integrations/orderstatus"
	"github.com/flowbaker/order-assistant/pkg/integrations/shippingcost"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, model *mock.Model) *fiber.App {
	t.Helper()

	d, err := dispatcher.New(
		dispatcher.WithModel(model),
		dispatcher.WithTools(orderstatus.NewTool(), shippingcost.NewTool()),
	)
	require.NoError(t, err)

	controller := controllers.NewAssistantController(controllers.AssistantControllerDependencies{
		AssistantService: managers.NewAssistantService(managers.AssistantServiceDependencies{Dispatcher: d}),
	})

	return NewHTTPServer(context.Background(), HTTPServerDependencies{
		AssistantController: controller,
		DisableRequestLog:   true,
	})
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, mock.New(mock.Config{}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "order-assistant", body["service"])
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name       string
		config     mock.Config
		body       string
		wantStatus int
		wantBody   map[string]any
		wantCalls  int
	}{
		{
			name:       "model answer",
			config:     mock.Config{ResponseText: "Hello!"},
			body:       `{"query":"hi"}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"answer": "Hello!", "tool": ""},
			wantCalls:  1,
		},
		{
			name: "tool answer",
			config: mock.Config{ToolCalls: []types.ToolCall{
				{ID: "1", Name: orderstatus.ToolName, Arguments: map[string]any{"order_id": "ORD456"}},
			}},
			body:       `{"query":"where is ORD456"}`,
			wantStatus: http.StatusOK,
			wantBody:   map[string]any{"answer": "📦 Your order status: In Transit", "tool": orderstatus.ToolName},
			wantCalls:  1,
		},
		{
			name:       "empty query warns without calling the model",
			config:     mock.Config{ResponseText: "unused"},
			body:       `{"query":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"warning": "Please enter a query."},
			wantCalls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := mock.New(tt.config)
			app := newTestApp(t, model)

			req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body)
			assert.Len(t, model.Requests(), tt.wantCalls)
		})
	}
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name       string
		config     mock.Config
		body       string
		wantStatus int
		wantText   string
	}{
		{
			name:       "invalid json",
			config:     mock.Config{},
			body:       `{"query":`,
			wantStatus: http.StatusBadRequest,
			wantText:   "Invalid request body",
		},
		{
			name:       "provider failure",
			config:     mock.Config{Err: errors.New("quota exceeded")},
			body:       `{"query":"hi"}`,
			wantStatus: http.StatusInternalServerError,
			wantText:   "Failed to process query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, mock.New(tt.config))

			req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(raw), tt.wantText)
			assert.NotContains(t, string(raw), "quota exceeded")
		})
	}
}

func TestAsk_APIToken(t *testing.T) {
	model := mock.New(mock.Config{ResponseText: "Hello!"})

	d, err := dispatcher.New(dispatcher.WithModel(model), dispatcher.WithTools(orderstatus.NewTool()))
	require.NoError(t, err)

	app := NewHTTPServer(context.Background(), HTTPServerDependencies{
		AssistantController: controllers.NewAssistantController(controllers.AssistantControllerDependencies{
			AssistantService: managers.NewAssistantService(managers.AssistantServiceDependencies{Dispatcher: d}),
		}),
		APIToken:          "s3cret",
		DisableRequestLog: true,
	})

	newRequest := func(token string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"query":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return req
	}

	resp, err := app.Test(newRequest(""))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, model.Requests())

	resp, err = app.Test(newRequest("s3cret"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, model.Requests(), 1)

	health, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
