// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"encoding/json"
)

// Tool defines a callable function that can be exposed to a model.
type Tool interface {
	// Name returns the function name as exposed to the model.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Parameters returns the JSON Schema describing the function's input.
	Parameters() json.RawMessage

	// Invoke calls the function with the given JSON arguments.
	Invoke(ctx context.Context, args json.RawMessage) (any, error)

	// ReturnDirect reports whether the tool's output ends the run as the
	// final answer instead of being fed back to the model.
	ReturnDirect() bool
}

// FunctionTool is a concrete [Tool] backed by a Go function.
type FunctionTool struct {
	name         string
	description  string
	parameters   json.RawMessage
	fn           func(ctx context.Context, args json.RawMessage) (any, error)
	returnDirect bool
}

// ToolOption configures a [FunctionTool].
type ToolOption func(*FunctionTool)

// WithReturnDirect makes the tool's output the final answer of the run.
func WithReturnDirect() ToolOption {
	return func(t *FunctionTool) { t.returnDirect = true }
}

// NewTool creates a [FunctionTool] with raw JSON schema and handler.
func NewTool(name, description string, parameters json.RawMessage, fn func(ctx context.Context, args json.RawMessage) (any, error), opts ...ToolOption) *FunctionTool {
	t := &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTypedTool creates a [FunctionTool] whose schema is generated from the
// Args type parameter and whose arguments are decoded into it.
//
// The Args type should be a struct with json tags. Use the `jsonschema` struct
// tag for additional schema metadata:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name"`
//	    Unit     string `json:"unit,omitempty" jsonschema:"enum=celsius,enum=fahrenheit"`
//	}
func NewTypedTool[Args any](name, description string, fn func(ctx context.Context, args Args) (any, error), opts ...ToolOption) *FunctionTool {
	schema := GenerateSchema[Args]()

	wrapped := func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args Args
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, &ToolError{
				ToolName: name,
				Message:  "invalid arguments: " + err.Error(),
				Err:      ErrToolExecution,
			}
		}
		return fn(ctx, args)
	}

	return NewTool(name, description, schema, wrapped, opts...)
}

// NewTextTool creates a [FunctionTool] that takes a single free-form string.
// It accepts either a JSON string or an object carrying the string under the
// positional argument key.
func NewTextTool(name, description string, fn func(ctx context.Context, input string) (any, error), opts ...ToolOption) *FunctionTool {
	wrapped := func(ctx context.Context, raw json.RawMessage) (any, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return fn(ctx, s)
		}
		var obj map[string]string
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, &ToolError{
				ToolName: name,
				Message:  "invalid arguments: " + err.Error(),
				Err:      ErrToolExecution,
			}
		}
		return fn(ctx, obj[positionalArgKey])
	}
	return NewTool(name, description, textSchema, wrapped, opts...)
}

func (t *FunctionTool) Name() string                { return t.name }
func (t *FunctionTool) Description() string         { return t.description }
func (t *FunctionTool) Parameters() json.RawMessage { return t.parameters }
func (t *FunctionTool) ReturnDirect() bool          { return t.returnDirect }

// Invoke calls the tool's backing function.
func (t *FunctionTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	if t.fn == nil {
		return nil, &ToolError{
			ToolName: t.name,
			Message:  "tool has no implementation",
			Err:      ErrToolExecution,
		}
	}
	return t.fn(ctx, args)
}
