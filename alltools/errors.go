// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrParse is the base error for tool-call parsing failures.
	ErrParse = errors.New("parse error")

	// ErrMalformedArgs indicates a fragment's arguments are not a decodable mapping.
	ErrMalformedArgs = fmt.Errorf("%w: malformed args", ErrParse)

	// ErrToolArgumentJSON indicates legacy function arguments are not valid JSON.
	ErrToolArgumentJSON = fmt.Errorf("%w: tool argument json", ErrParse)

	// ErrToolInputParse indicates a platform-tool family could not be reassembled.
	ErrToolInputParse = fmt.Errorf("%w: tool input", ErrParse)

	// ErrRun is the base error for run lifecycle failures.
	ErrRun = errors.New("run error")

	// ErrInvalidMessage is returned when the router receives a non-assistant message.
	ErrInvalidMessage = fmt.Errorf("%w: invalid message", ErrRun)

	// ErrUnknownRunCorrelation indicates a tool_end arrived without its tool_start.
	ErrUnknownRunCorrelation = fmt.Errorf("%w: unknown run correlation", ErrRun)

	// ErrMaxIterations is returned when the agent loop does not reach a finish.
	ErrMaxIterations = fmt.Errorf("%w: max iterations reached", ErrRun)

	// ErrTool is the base error for tool-related failures.
	ErrTool = errors.New("tool error")

	// ErrToolExecution indicates a failure during tool invocation.
	ErrToolExecution = fmt.Errorf("%w: execution", ErrTool)

	// ErrSandboxContract indicates an auto-sandbox platform tool returned no outputs.
	ErrSandboxContract = fmt.Errorf("%w: sandbox contract", ErrTool)

	// ErrToolNotImplemented indicates the caller must supply platform outputs itself.
	ErrToolNotImplemented = fmt.Errorf("%w: not implemented", ErrTool)

	// ErrService is the base error for backend service failures.
	ErrService = errors.New("service error")

	// ErrContentFilter indicates the request was rejected by a content filter.
	ErrContentFilter = fmt.Errorf("%w: content filter", ErrService)

	// ErrInvalidRequest indicates the request was malformed or invalid.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrService)

	// ErrInvalidResponse indicates the service returned an unexpected response.
	ErrInvalidResponse = fmt.Errorf("%w: invalid response", ErrService)

	// ErrAuth indicates an authentication or authorization failure.
	ErrAuth = fmt.Errorf("%w: authentication", ErrService)
)

// ParseError describes a tool call or tool family that could not be parsed.
// Use errors.As to extract it from a wrapped error chain.
type ParseError struct {
	Tool    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse tool input: %s because %s", e.Tool, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ToolArgumentJSONError reports legacy function arguments that failed to decode.
type ToolArgumentJSONError struct {
	Function  string
	Arguments string
	Err       error
}

func (e *ToolArgumentJSONError) Error() string {
	return fmt.Sprintf("could not parse tool input: %s because the arguments %q are not valid JSON: %v",
		e.Function, e.Arguments, e.Err)
}

func (e *ToolArgumentJSONError) Unwrap() []error { return []error{ErrToolArgumentJSON, e.Err} }

// CorrelationError reports a tool_end record with no matching tool_start.
type CorrelationError struct {
	RunID string
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("no tool_start recorded for run %q", e.RunID)
}

func (e *CorrelationError) Unwrap() error { return ErrUnknownRunCorrelation }

// SandboxContractError reports a platform tool that ran in an automatic
// sandbox but came back without outputs.
type SandboxContractError struct {
	Tool    string
	Sandbox string
}

func (e *SandboxContractError) Error() string {
	return fmt.Sprintf("tool %q: sandbox is %s but no outputs were returned", e.Tool, e.Sandbox)
}

func (e *SandboxContractError) Unwrap() error { return ErrSandboxContract }

// ServiceError provides rich context for backend service failures.
type ServiceError struct {
	StatusCode int
	Message    string
	Code       string
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("service error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("service error %d: %s", e.StatusCode, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ToolError provides context for tool invocation failures.
type ToolError struct {
	ToolName string
	Message  string
	Err      error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %s", e.ToolName, e.Message)
}

func (e *ToolError) Unwrap() error { return e.Err }
