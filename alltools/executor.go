// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"

	"github.com/google/uuid"
)

// ExecutorOption configures an [Executor].
type ExecutorOption func(*Executor)

// WithExecutorPlatformParams sets the platform parameters used for
// invocations that do not carry their own.
func WithExecutorPlatformParams(params map[Family]map[string]any) ExecutorOption {
	return func(e *Executor) {
		for f, p := range params {
			e.params[f] = maps.Clone(p)
		}
	}
}

// WithPlatformHandler supplies a local implementation for the unregistered
// tool name, typically a platform tool running with sandbox "none".
func WithPlatformHandler(name string, h AdapterHandler) ExecutorOption {
	return func(e *Executor) { e.handlers[name] = h }
}

// WithExecutorMiddleware adds [FunctionMiddleware] around every tool call.
func WithExecutorMiddleware(mws ...FunctionMiddleware) ExecutorOption {
	return func(e *Executor) { e.middleware = append(e.middleware, mws...) }
}

// WithExecutorMetrics records tool outcomes on m.
func WithExecutorMetrics(m *Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// ExecResult is the outcome of an asynchronous execution.
type ExecResult struct {
	Output ToolOutput
	Err    error
}

// Executor runs invocations against a tool registry. Invocations naming an
// unregistered tool run through an [AdapterTool].
type Executor struct {
	tools      map[string]Tool
	params     map[Family]map[string]any
	handlers   map[string]AdapterHandler
	middleware []FunctionMiddleware
	metrics    *Metrics
}

// NewExecutor creates an Executor for tools. Later tools replace earlier
// ones with the same name.
func NewExecutor(tools []Tool, opts ...ExecutorOption) *Executor {
	e := &Executor{
		tools:    make(map[string]Tool, len(tools)),
		params:   map[Family]map[string]any{},
		handlers: map[string]AdapterHandler{},
	}
	for _, t := range tools {
		e.tools[t.Name()] = t
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lookup returns the registered tool called name.
func (e *Executor) Lookup(name string) (Tool, bool) {
	t, ok := e.tools[name]
	return t, ok
}

// Execute runs one invocation and reports agent_action, tool_start and
// tool_end records to cb under a fresh tool-run id. cb may be nil.
//
// A registered tool receives the JSON encoding of the invocation's tool input;
// an unregistered one is handed to an [AdapterTool] with the full
// {tool, tool_input, log, outputs} payload. Errors are not retried.
func (e *Executor) Execute(ctx context.Context, inv *Invocation, cb Callbacks) (ToolOutput, error) {
	runID := uuid.NewString()
	input := formatToolInput(inv.ToolInput)

	emit(ctx, cb, Record{Status: StatusAgentAction, RunID: runID, Tool: inv.Tool, ToolInput: input, Log: inv.Log})

	tool, args, err := e.resolve(inv)
	if err != nil {
		return ToolOutput{}, err
	}

	emit(ctx, cb, Record{Status: StatusToolStart, RunID: runID, Tool: inv.Tool, ToolInput: input, Log: inv.Log})

	handler := func(ctx context.Context, t Tool, a json.RawMessage) (any, error) {
		return t.Invoke(ctx, a)
	}
	result, err := chainFunctionMiddleware(handler, e.middleware...)(ctx, tool, args)
	e.metrics.incToolCall(inv.Family, err)
	if err != nil {
		if !errors.Is(err, ErrTool) {
			err = &ToolError{ToolName: inv.Tool, Message: err.Error(), Err: errors.Join(ErrToolExecution, err)}
		}
		slog.WarnContext(ctx, "tool execution failed", "tool", inv.Tool, "run_id", runID, "error", err)
		emit(ctx, cb, Record{Status: StatusToolEnd, RunID: runID, ToolOutput: err.Error(), IsError: true})
		return ToolOutput{}, err
	}

	out := normalizeOutput(result)
	emit(ctx, cb, Record{Status: StatusToolEnd, RunID: runID, ToolOutput: out.Render()})
	return out, nil
}

// ExecuteAsync runs [Executor.Execute] on a new goroutine. The channel
// receives exactly one result.
func (e *Executor) ExecuteAsync(ctx context.Context, inv *Invocation, cb Callbacks) <-chan ExecResult {
	ch := make(chan ExecResult, 1)
	go func() {
		defer close(ch)
		out, err := e.Execute(ctx, inv, cb)
		ch <- ExecResult{Output: out, Err: err}
	}()
	return ch
}

// ReturnDirect reports whether the registered tool name ends the run.
func (e *Executor) ReturnDirect(name string) bool {
	t, ok := e.tools[name]
	return ok && t.ReturnDirect()
}

func (e *Executor) resolve(inv *Invocation) (Tool, json.RawMessage, error) {
	if t, ok := e.tools[inv.Tool]; ok {
		args, err := json.Marshal(inv.ToolInput)
		if err != nil {
			return nil, nil, &ToolError{ToolName: inv.Tool, Message: "encode arguments: " + err.Error(), Err: ErrToolExecution}
		}
		return t, args, nil
	}

	params := inv.PlatformParams
	if params == nil {
		params = e.params[FamilyOf(inv.Tool)]
	}
	adapter := NewAdapterTool(inv.Tool, params, e.handlers[inv.Tool])
	args, err := json.Marshal(AdapterInput{
		Tool:      inv.Tool,
		ToolInput: inv.ToolInput,
		Log:       inv.Log,
		Outputs:   inv.Outputs,
	})
	if err != nil {
		return nil, nil, &ToolError{ToolName: inv.Tool, Message: "encode adapter payload: " + err.Error(), Err: ErrToolExecution}
	}
	return adapter, args, nil
}
