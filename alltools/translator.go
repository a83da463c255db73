// Copyright (c) Microsoft. All rights reserved.

package alltools

import "fmt"

type toolStart struct {
	tool      string
	toolInput string
	log       string
}

// Translator turns the lifecycle records of one run into [RunEvent] values,
// pairing each tool_end with the tool_start of the same run id.
//
// A Translator belongs to a single run and is not safe for concurrent use.
type Translator struct {
	started map[string]toolStart
}

// NewTranslator creates a Translator with an empty correlation table.
func NewTranslator() *Translator {
	return &Translator{started: make(map[string]toolStart)}
}

// Translate converts one record. A tool_end record whose run id has no
// pending tool_start fails with a [CorrelationError].
func (t *Translator) Translate(r Record) (RunEvent, error) {
	switch r.Status {
	case StatusLLMStart, StatusLLMNewToken, StatusLLMEnd, StatusError:
		return &LLMStatusEvent{RunID: r.RunID, Phase: r.Status, Text: r.Text, MessageType: MessageText}, nil

	case StatusAgentAction:
		return &ActionEvent{RunID: r.RunID, Tool: r.Tool, ToolInput: r.ToolInput, Log: r.Log}, nil

	case StatusToolStart:
		t.started[r.RunID] = toolStart{tool: r.Tool, toolInput: r.ToolInput, log: r.Log}
		return &ToolStartEvent{RunID: r.RunID, Tool: r.Tool, ToolInput: r.ToolInput}, nil

	case StatusToolEnd:
		start, ok := t.started[r.RunID]
		if !ok {
			return nil, &CorrelationError{RunID: r.RunID}
		}
		delete(t.started, r.RunID)
		return &ToolEndEvent{
			RunID:      r.RunID,
			Tool:       start.tool,
			ToolInput:  start.toolInput,
			ToolOutput: r.ToolOutput,
			IsError:    r.IsError,
		}, nil

	case StatusAgentFinish:
		clear(t.started)
		return &FinishEvent{RunID: r.RunID, Output: r.Output, Log: r.Log}, nil

	default:
		return nil, fmt.Errorf("%w: unknown record status %d", ErrRun, int(r.Status))
	}
}

// Pending returns the number of tool runs started but not yet ended.
func (t *Translator) Pending() int { return len(t.started) }
