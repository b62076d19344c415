package tavily

import (
	"net/http"
)

// ClientOption represents an option for configuring the Tavily client
type ClientOption func(*ClientConfig)

// ClientConfig holds the configuration for the Tavily client
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	DefaultHeaders map[string]string
	HTTPClient     *http.Client
	UserAgent      string
}

// DefaultConfig returns the default configuration. The client sets no
// timeout; a request only ends when its context does.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		DefaultHeaders: map[string]string{
			"Content-Type": "application/json",
		},
		UserAgent: "order-assistant/1.0.0",
	}
}

// WithBaseURL sets the base URL for the Tavily API
func WithBaseURL(baseURL string) ClientOption {
	return func(c *ClientConfig) {
		c.BaseURL = baseURL
	}
}

// WithAPIKey sets the bearer token sent with every request
func WithAPIKey(apiKey string) ClientOption {
	return func(c *ClientConfig) {
		c.APIKey = apiKey
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *ClientConfig) {
		c.HTTPClient = httpClient
	}
}
