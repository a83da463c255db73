// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
)

// Sandbox modes of the code interpreter platform tool.
const (
	SandboxAuto = "auto"
	SandboxNone = "none"
)

// AdapterInput is the payload handed to an [AdapterTool].
type AdapterInput struct {
	Tool      string `json:"tool"`
	ToolInput any    `json:"tool_input"`
	Log       string `json:"log"`
	Outputs   []any  `json:"outputs,omitempty"`
}

// AdapterHandler produces the observation of a platform tool locally.
type AdapterHandler func(ctx context.Context, in AdapterInput, platformParams map[string]any) (any, error)

// AdapterTool stands in for a tool that has no local implementation, such as
// the platform tools executed by the vendor. By default it describes the call
// instead of running anything.
type AdapterTool struct {
	name    string
	params  map[string]any
	handler AdapterHandler
}

// NewAdapterTool creates an adapter for the tool name. handler may be nil.
func NewAdapterTool(name string, platformParams map[string]any, handler AdapterHandler) *AdapterTool {
	return &AdapterTool{name: name, params: maps.Clone(platformParams), handler: handler}
}

func (t *AdapterTool) Name() string { return t.name }

func (t *AdapterTool) Description() string {
	return "platform adapter for " + t.name
}

func (t *AdapterTool) Parameters() json.RawMessage { return GenerateSchema[AdapterInput]() }

func (t *AdapterTool) ReturnDirect() bool { return false }

// Invoke decodes an [AdapterInput] and produces the observation.
//
// A code interpreter call without outputs fails with a
// [SandboxContractError] when the sandbox is "auto" (the default), because
// the vendor should have run the code. With sandbox "none" the outputs must
// come from a handler; without one the call fails with
// [ErrToolNotImplemented].
func (t *AdapterTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	var in AdapterInput
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, &ToolError{
			ToolName: t.name,
			Message:  "invalid adapter payload: " + err.Error(),
			Err:      ErrToolExecution,
		}
	}

	if FamilyOf(t.name) == FamilyCodeInterpreter && len(in.Outputs) == 0 {
		switch sandbox := t.sandbox(); sandbox {
		case SandboxAuto:
			return nil, &SandboxContractError{Tool: t.name, Sandbox: sandbox}
		case SandboxNone:
			if t.handler == nil {
				return nil, &ToolError{
					ToolName: t.name,
					Message:  "sandbox is none and no outputs were supplied",
					Err:      ErrToolNotImplemented,
				}
			}
		}
	}

	if t.handler != nil {
		return t.handler(ctx, in, maps.Clone(t.params))
	}

	out := TextOutput(fmt.Sprintf("Access: %s, Message: %s,%s", in.Tool, formatToolInput(in.ToolInput), in.Log))
	if len(t.params) > 0 {
		out.Extras = map[string]any{"platform_params": maps.Clone(t.params)}
	}
	return out, nil
}

func (t *AdapterTool) sandbox() string {
	if s, ok := t.params["sandbox"].(string); ok && s != "" {
		return s
	}
	return SandboxAuto
}
