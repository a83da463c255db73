// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ChatInput is the input of one agent run: the user query and the prior
// conversation.
type ChatInput struct {
	Query   string    `json:"query"`
	History []Message `json:"history,omitempty"`
}

// InvocationConfig controls the tool-calling loop.
type InvocationConfig struct {
	// MaxIterations is the maximum number of model calls per run.
	// Default: 40.
	MaxIterations int

	// MaxConsecutiveErrors is the maximum number of consecutive tool errors
	// before aborting. Default: 3.
	MaxConsecutiveErrors int

	// IncludeDetailedErrors includes full error text in tool results sent
	// back to the model. When false, a generic error message is used.
	IncludeDetailedErrors bool
}

// DefaultInvocationConfig returns the default configuration.
func DefaultInvocationConfig() InvocationConfig {
	return InvocationConfig{
		MaxIterations:        40,
		MaxConsecutiveErrors: 3,
	}
}

// Agent drives a model through the all-tools protocol: each assistant
// message is routed into invocations, the invocations are executed and their
// observations fed back, until the model gives a final answer.
//
// Create one with [NewAgent] and functional options:
//
//	agent := alltools.NewAgent(client,
//	    alltools.WithInstructions("You are helpful."),
//	    alltools.WithTools(weatherTool),
//	    alltools.WithToolSpecs(alltools.PlatformSpec(alltools.FamilyWebBrowser, nil)),
//	)
type Agent struct {
	id                 string
	name               string
	client             ChatClient
	instructions       string
	tools              []Tool
	toolSpecs          []ToolSpec
	defaultOptions     *ChatOptions
	handlers           map[string]AdapterHandler
	agentMiddleware    []AgentMiddleware
	chatMiddleware     []ChatMiddleware
	functionMiddleware []FunctionMiddleware
	invocationConfig   InvocationConfig
	metrics            *Metrics
	logger             *slog.Logger
}

// AgentOption configures an [Agent] via [NewAgent].
type AgentOption func(*Agent)

// WithName sets the agent's display name.
func WithName(name string) AgentOption {
	return func(a *Agent) { a.name = name }
}

// WithInstructions sets the system instructions for the agent.
func WithInstructions(instructions string) AgentOption {
	return func(a *Agent) { a.instructions = instructions }
}

// WithTools adds locally implemented tools.
func WithTools(tools ...Tool) AgentOption {
	return func(a *Agent) { a.tools = append(a.tools, tools...) }
}

// WithToolSpecs adds tool specs sent to the vendor as-is, such as platform
// tool markers.
func WithToolSpecs(specs ...ToolSpec) AgentOption {
	return func(a *Agent) { a.toolSpecs = append(a.toolSpecs, specs...) }
}

// WithDefaultOptions sets default [ChatOptions] for all requests.
func WithDefaultOptions(opts *ChatOptions) AgentOption {
	return func(a *Agent) { a.defaultOptions = opts }
}

// WithAdapterHandler supplies a local implementation for the platform tool
// name. See [WithPlatformHandler].
func WithAdapterHandler(name string, h AdapterHandler) AgentOption {
	return func(a *Agent) { a.handlers[name] = h }
}

// WithAgentMiddleware adds [AgentMiddleware] to the agent pipeline.
func WithAgentMiddleware(mws ...AgentMiddleware) AgentOption {
	return func(a *Agent) { a.agentMiddleware = append(a.agentMiddleware, mws...) }
}

// WithChatMiddleware adds [ChatMiddleware] around every model call.
func WithChatMiddleware(mws ...ChatMiddleware) AgentOption {
	return func(a *Agent) { a.chatMiddleware = append(a.chatMiddleware, mws...) }
}

// WithFunctionMiddleware adds [FunctionMiddleware] to the tool invocation pipeline.
func WithFunctionMiddleware(mws ...FunctionMiddleware) AgentOption {
	return func(a *Agent) { a.functionMiddleware = append(a.functionMiddleware, mws...) }
}

// WithInvocationConfig overrides the default [InvocationConfig].
func WithInvocationConfig(cfg InvocationConfig) AgentOption {
	return func(a *Agent) { a.invocationConfig = cfg }
}

// WithMetrics records routing and tool outcomes on m.
func WithMetrics(m *Metrics) AgentOption {
	return func(a *Agent) { a.metrics = m }
}

// WithLogger sets the logger for run diagnostics and dropped tool calls.
// Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) { a.logger = logger }
}

// NewAgent creates an Agent with the given [ChatClient] and options.
func NewAgent(client ChatClient, opts ...AgentOption) *Agent {
	a := &Agent{
		id:               uuid.NewString(),
		client:           client,
		handlers:         map[string]AdapterHandler{},
		invocationConfig: DefaultInvocationConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.invocationConfig.MaxIterations <= 0 {
		a.invocationConfig.MaxIterations = 40
	}
	if a.invocationConfig.MaxConsecutiveErrors <= 0 {
		a.invocationConfig.MaxConsecutiveErrors = 3
	}
	return a
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// RunOption configures a single [Agent.Run] call.
type RunOption func(*runConfig)

type runConfig struct {
	callbacks Callbacks
	options   *ChatOptions
}

// WithCallbacks receives the lifecycle records of the run.
func WithCallbacks(cb Callbacks) RunOption {
	return func(c *runConfig) { c.callbacks = cb }
}

// WithRunOptions provides per-call [ChatOptions] overrides.
func WithRunOptions(opts *ChatOptions) RunOption {
	return func(c *runConfig) { c.options = opts }
}

// Run executes the agent loop to completion.
func (a *Agent) Run(ctx context.Context, input ChatInput, opts ...RunOption) (*AgentResponse, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	handler := chainAgentMiddleware(a.runHandler(uuid.NewString()), a.agentMiddleware...)
	return handler(ctx, &AgentRequest{Input: input, Callbacks: cfg.callbacks, Options: cfg.options})
}

// Stream executes the agent loop on a separate goroutine and returns its
// events in order.
//
// A failed run ends with an [LLMStatusEvent] in [StatusError], after which
// the stream reports the run's error. Closing the stream cancels the run.
func (a *Agent) Stream(ctx context.Context, input ChatInput, opts ...RunOption) *ResponseStream[RunEvent] {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	runID := uuid.NewString()
	handler := chainAgentMiddleware(a.runHandler(runID), a.agentMiddleware...)

	return NewResponseStream(ctx, func(ctx context.Context, ch chan<- RunEvent) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		queue := newRecordQueue()
		var sink Callbacks = queue
		if cfg.callbacks != nil {
			sink = CallbackFunc(func(ctx context.Context, r Record) {
				cfg.callbacks.Emit(ctx, r)
				queue.Emit(ctx, r)
			})
		}

		go func() {
			err := runGuarded(ctx, handler, &AgentRequest{Input: input, Callbacks: sink, Options: cfg.options})
			if err != nil {
				a.logger.ErrorContext(ctx, "agent run failed", "run_id", runID, "error", err)
				sink.Emit(ctx, Record{Status: StatusError, RunID: runID, Text: err.Error()})
			}
			queue.Close(err)
		}()

		translator := NewTranslator()
		for {
			r, ok, err := queue.Next(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			ev, err := translator.Translate(r)
			if err != nil {
				return err
			}
			select {
			case ch <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}

// runGuarded turns a panic in the run into an error.
func runGuarded(ctx context.Context, handler AgentHandler, req *AgentRequest) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrRun, p)
		}
	}()
	_, err = handler(ctx, req)
	return err
}

func (a *Agent) prepareChatOptions(override *ChatOptions) *ChatOptions {
	opts := MergeChatOptions(a.defaultOptions, override)
	opts.Tools = mergeTools(a.tools, opts.Tools)
	specs := make([]ToolSpec, 0, len(a.toolSpecs)+len(opts.ToolSpecs))
	specs = append(specs, a.toolSpecs...)
	opts.ToolSpecs = append(specs, opts.ToolSpecs...)

	if a.instructions != "" {
		if opts.Instructions != "" {
			opts.Instructions = a.instructions + "\n" + opts.Instructions
		} else {
			opts.Instructions = a.instructions
		}
	}
	return opts
}

func (a *Agent) runHandler(runID string) AgentHandler {
	return func(ctx context.Context, req *AgentRequest) (*AgentResponse, error) {
		opts := a.prepareChatOptions(req.Options)
		params := PlatformParams(opts.ToolSpecs)

		router := NewRouter(
			WithPlatformParams(params),
			WithRouterLogger(a.logger),
			WithRouterMetrics(a.metrics),
		)
		execOpts := []ExecutorOption{
			WithExecutorPlatformParams(params),
			WithExecutorMiddleware(a.functionMiddleware...),
			WithExecutorMetrics(a.metrics),
		}
		for name, h := range a.handlers {
			execOpts = append(execOpts, WithPlatformHandler(name, h))
		}
		executor := NewExecutor(opts.Tools, execOpts...)

		messages := make([]Message, 0, len(req.Input.History)+1)
		messages = append(messages, req.Input.History...)
		messages = append(messages, NewUserMessage(req.Input.Query))
		messages = PrependInstructions(messages, opts.Instructions)
		start := len(messages)

		a.logger.DebugContext(ctx, "agent run",
			"agent_id", a.id,
			"run_id", runID,
			"message_count", len(messages),
			"tool_count", len(opts.Tools),
			"tool_spec_count", len(opts.ToolSpecs),
		)

		resp := &AgentResponse{}
		cb := req.Callbacks
		consecutiveErrors := 0

		for resp.Steps < a.invocationConfig.MaxIterations {
			chatResp, err := a.callModel(ctx, messages, opts, cb)
			if err != nil {
				return nil, err
			}
			resp.Steps++
			resp.Usage.Add(chatResp.Usage)

			decision, err := router.Route(ctx, &chatResp.Message)
			if err != nil {
				return nil, err
			}
			messages = append(messages, chatResp.Message)

			if decision.IsFinish() || len(decision.Invocations) == 0 {
				finish := decision.Finish
				if finish == nil {
					a.logger.WarnContext(ctx, "no actionable tool calls, finishing with message text",
						"run_id", runID,
						"dropped", len(decision.Errors))
					finish = &Finish{Output: chatResp.Message.Content, Log: chatResp.Message.Content}
				}
				return a.finish(ctx, cb, runID, resp, messages[start:], finish), nil
			}

			for i := range decision.Invocations {
				inv := &decision.Invocations[i]
				out, err := executor.Execute(ctx, inv, cb)
				if err != nil {
					if errors.Is(err, ErrSandboxContract) || errors.Is(err, ErrToolNotImplemented) {
						return nil, err
					}
					consecutiveErrors++
					if consecutiveErrors >= a.invocationConfig.MaxConsecutiveErrors {
						return nil, fmt.Errorf("%w: max consecutive errors reached (%d): %w",
							ErrToolExecution, consecutiveErrors, err)
					}
					errMsg := "error invoking tool"
					if a.invocationConfig.IncludeDetailedErrors {
						errMsg = err.Error()
					}
					messages = append(messages, NewToolMessage(inv.CallID, errMsg))
					continue
				}

				consecutiveErrors = 0
				observation := out.Render()
				messages = append(messages, NewToolMessage(inv.CallID, observation))
				if executor.ReturnDirect(inv.Tool) {
					return a.finish(ctx, cb, runID, resp, messages[start:], &Finish{Output: observation}), nil
				}
			}
		}

		return nil, fmt.Errorf("%w (%d)", ErrMaxIterations, a.invocationConfig.MaxIterations)
	}
}

func (a *Agent) finish(ctx context.Context, cb Callbacks, runID string, resp *AgentResponse, produced []Message, f *Finish) *AgentResponse {
	emit(ctx, cb, Record{Status: StatusAgentFinish, RunID: runID, Output: f.Output, Log: f.Log})
	resp.Output = f.Output
	resp.Log = f.Log
	resp.Messages = append([]Message(nil), produced...)
	return resp
}

// callModel streams one model call through the chat middleware, reporting
// llm_start, a token record per text delta, and llm_end.
func (a *Agent) callModel(ctx context.Context, messages []Message, opts *ChatOptions, cb Callbacks) (*ChatResponse, error) {
	inner := func(ctx context.Context, messages []Message, opts *ChatOptions) (*ChatResponse, error) {
		llmRunID := uuid.NewString()
		emit(ctx, cb, Record{Status: StatusLLMStart, RunID: llmRunID})

		stream, err := a.client.StreamResponse(ctx, messages, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRun, err)
		}
		defer stream.Close()

		var updates []ChatResponseUpdate
		for {
			u, ok, err := stream.Next(ctx)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrRun, err)
			}
			if !ok {
				break
			}
			if u.Text != "" {
				emit(ctx, cb, Record{Status: StatusLLMNewToken, RunID: llmRunID, Text: u.Text})
			}
			updates = append(updates, u)
		}

		resp := ChatResponseFromUpdates(updates)
		emit(ctx, cb, Record{Status: StatusLLMEnd, RunID: llmRunID, Text: resp.Message.Content})
		return resp, nil
	}
	return chainChatMiddleware(inner, a.chatMiddleware...)(ctx, messages, opts)
}
