package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/types"
	"github.com/google/jsonschema-go/jsonschema"
)

type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, args string) (string, error)
}

type FuncTool struct {
	name        string
	description string
	parameters  map[string]any
	fn          func(context.Context, string) (string, error)
}

func (t *FuncTool) Name() string {
	return t.name
}

func (t *FuncTool) Description() string {
	return t.description
}

func (t *FuncTool) Parameters() map[string]any {
	return t.parameters
}

func (t *FuncTool) Execute(ctx context.Context, args string) (string, error) {
	return t.fn(ctx, args)
}

func Define(name, description string, parameters map[string]any, fn func(context.Context, string) (string, error)) Tool {
	return &FuncTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// DefineTyped builds a tool whose parameter schema is inferred from T and
// whose JSON arguments are decoded into T before fn runs. Field descriptions
// come from the `jsonschema` struct tag.
func DefineTyped[T any](name, description string, fn func(context.Context, T) (string, error)) (Tool, error) {
	parameters, err := SchemaFor[T]()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema for tool %s: %w", name, err)
	}

	return Define(name, description, parameters, func(ctx context.Context, args string) (string, error) {
		var input T
		if args != "" {
			if err := json.Unmarshal([]byte(args), &input); err != nil {
				return "", fmt.Errorf("%w: %s: %w", types.ErrInvalidToolArguments, name, err)
			}
		}

		return fn(ctx, input)
	}), nil
}

// MustDefineTyped is like DefineTyped but panics if the schema cannot be built.
func MustDefineTyped[T any](name, description string, fn func(context.Context, T) (string, error)) Tool {
	t, err := DefineTyped(name, description, fn)
	if err != nil {
		panic(err)
	}

	return t
}

// SchemaFor returns the JSON schema of T in the generic map form the
// providers consume.
func SchemaFor[T any]() (map[string]any, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}

	var parameters map[string]any
	if err := json.Unmarshal(raw, &parameters); err != nil {
		return nil, err
	}

	return parameters, nil
}

func ToTypesTool(t Tool) types.Tool {
	return types.Tool{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters:  t.Parameters(),
	}
}
