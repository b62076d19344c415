package tavily

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when Search is called without a query
var ErrEmptyQuery = errors.New("tavily: query is required")

// Error represents an error from the Tavily API
type Error struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Body       string `json:"body,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("tavily: %s (status: %d, request_id: %s)", e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("tavily: %s (status: %d)", e.Message, e.StatusCode)
}

// IsAuthError returns true if the error is related to authentication
func (e *Error) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// IsRateLimited returns true if the error is due to rate limiting or an exhausted plan
func (e *Error) IsRateLimited() bool {
	return e.StatusCode == 429 || e.StatusCode == 432 || e.StatusCode == 433
}

// AsError extracts a Tavily API error from err
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
