package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL    = "https://api.tavily.com"
	DefaultMaxResults = 3
)

// SearchClient is the subset of the Tavily API used by the assistant
type SearchClient interface {
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
}

// Client provides access to the Tavily search API. Each call is a single
// attempt; failures are returned to the caller.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new Tavily client with the given options
func NewClient(options ...ClientOption) *Client {
	config := DefaultConfig()

	for _, option := range options {
		option(config)
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// Search runs a web search. MaxResults defaults to DefaultMaxResults.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	body := *req
	if body.MaxResults <= 0 {
		body.MaxResults = DefaultMaxResults
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/search", &body)
	if err != nil {
		return nil, err
	}

	var result SearchResponse
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var requestBody io.Reader

	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		requestBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.config.DefaultHeaders {
		req.Header.Set(key, value)
	}

	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily request failed: %w", err)
	}

	if resp.StatusCode >= 500 {
		log.Error().
			Int("status_code", resp.StatusCode).
			Str("path", path).
			Str("request_id", resp.Header.Get("X-Request-ID")).
			Msg("tavily server error")
	}

	return resp, nil
}

// handleResponse processes the HTTP response and unmarshals JSON if successful
func (c *Client) handleResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			Body:       string(body),
			RequestID:  resp.Header.Get("X-Request-ID"),
		}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// errorMessage pulls a message out of the error shapes Tavily returns:
// {"detail":{"error":"..."}}, {"detail":"..."} or {"error":"..."}.
func errorMessage(statusCode int, body []byte) string {
	var errorResponse struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}

	if json.Unmarshal(body, &errorResponse) == nil {
		if len(errorResponse.Detail) > 0 {
			var detail struct {
				Error string `json:"error"`
			}
			if json.Unmarshal(errorResponse.Detail, &detail) == nil && detail.Error != "" {
				return detail.Error
			}

			var text string
			if json.Unmarshal(errorResponse.Detail, &text) == nil && text != "" {
				return text
			}
		}

		if errorResponse.Error != "" {
			return errorResponse.Error
		}

		if errorResponse.Message != "" {
			return errorResponse.Message
		}
	}

	return fmt.Sprintf("HTTP %d", statusCode)
}
