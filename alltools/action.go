// Copyright (c) Microsoft. All rights reserved.

package alltools

// PlaceholderCallID is used when the model omits a tool-call id. It is fixed
// so that replaying the same model output yields the same invocations.
const PlaceholderCallID = "abc"

// positionalArgKey carries the single string argument of tools that take no
// schema.
const positionalArgKey = "__arg1"

// Invocation is a fully formed tool call ready for execution.
type Invocation struct {
	// Tool is the tool name as emitted by the model.
	Tool string

	// ToolInput is a string or a structured value.
	ToolInput any

	// Log is a human-readable trace of the call.
	Log string

	// Message is the assistant message the call came from.
	Message *Message

	// CallID correlates the call with its tool result message.
	CallID string

	Family Family

	// Outputs holds the results a platform tool already produced, in order.
	// Only platform-family invocations set it.
	Outputs []any

	// PlatformParams is the vendor configuration of a platform tool, such as
	// {"sandbox": "auto"}.
	PlatformParams map[string]any
}

// Finish is the final answer of an agent step.
type Finish struct {
	Output string
	Log    string
}

// Decision is the outcome of routing one assistant message: either a finish or
// an ordered list of invocations.
type Decision struct {
	Finish      *Finish
	Invocations []Invocation

	// Errors holds failures scoped to a single call or tool family. The
	// affected calls are missing from Invocations; the rest are intact.
	Errors []error
}

// IsFinish reports whether the decision ends the run.
func (d *Decision) IsFinish() bool { return d.Finish != nil }

func callIDOrPlaceholder(id string) string {
	if id == "" {
		return PlaceholderCallID
	}
	return id
}
