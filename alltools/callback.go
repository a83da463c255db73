// Copyright (c) Microsoft. All rights reserved.

package alltools

import "context"

// Record is a raw lifecycle notification emitted while a run executes. A
// [Translator] turns records into [RunEvent] values.
type Record struct {
	Status Status
	RunID  string

	// Text is the token, the full model text, or the error message.
	Text string

	Tool       string
	ToolInput  string
	ToolOutput string
	Log        string

	// Output is the final answer of an agent_finish record.
	Output string

	IsError bool
}

// Callbacks receives lifecycle records. Implementations must not block for
// long; they are called on the run's goroutine.
type Callbacks interface {
	Emit(ctx context.Context, r Record)
}

// CallbackFunc adapts a function to [Callbacks].
type CallbackFunc func(ctx context.Context, r Record)

func (f CallbackFunc) Emit(ctx context.Context, r Record) { f(ctx, r) }

func emit(ctx context.Context, cb Callbacks, r Record) {
	if cb != nil {
		cb.Emit(ctx, r)
	}
}
