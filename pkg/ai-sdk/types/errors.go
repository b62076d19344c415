package types

import "errors"

var (
	// ErrProviderNotSet is returned when a dispatcher is built without a model
	ErrProviderNotSet = errors.New("provider not set")

	// ErrToolsNotSupported is returned when the model cannot call tools
	ErrToolsNotSupported = errors.New("model does not support tool calling")

	// ErrDuplicateTool is returned when two tools share a name
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrToolExecutionFailed is returned when tool execution fails
	ErrToolExecutionFailed = errors.New("tool execution failed")

	// ErrInvalidToolArguments is returned when tool arguments cannot be decoded
	ErrInvalidToolArguments = errors.New("invalid tool arguments")

	// ErrEmptyResponse is returned when the provider returns an empty response
	ErrEmptyResponse = errors.New("empty response from provider")
)
