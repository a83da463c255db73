// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle stage an event reports. The numbering is part of
// the wire format.
type Status int

const (
	StatusLLMStart    Status = 1
	StatusLLMNewToken Status = 2
	StatusLLMEnd      Status = 3
	StatusAgentAction Status = 4
	StatusAgentFinish Status = 5
	StatusToolStart   Status = 6
	StatusToolEnd     Status = 7
	StatusError       Status = 8
)

func (s Status) String() string {
	switch s {
	case StatusLLMStart:
		return "llm_start"
	case StatusLLMNewToken:
		return "llm_new_token"
	case StatusLLMEnd:
		return "llm_end"
	case StatusAgentAction:
		return "agent_action"
	case StatusAgentFinish:
		return "agent_finish"
	case StatusToolStart:
		return "tool_start"
	case StatusToolEnd:
		return "tool_end"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MessageType classifies the payload of an [LLMStatusEvent]. Model output is
// always text.
type MessageType int

const MessageText MessageType = 1

// RunEvent is a sealed interface over the events of an agent run. Use a type
// switch to inspect the concrete event.
type RunEvent interface {
	// Run returns the id of the run or tool run the event belongs to.
	Run() string

	// Status returns the event's lifecycle stage.
	Status() Status

	sealed()
}

type eventBase struct{}

func (eventBase) sealed() {}

// LLMStatusEvent reports model progress: start, a streamed token, the end of
// a call, or an error.
type LLMStatusEvent struct {
	eventBase
	RunID       string
	Phase       Status
	Text        string
	MessageType MessageType
}

func (e *LLMStatusEvent) Run() string    { return e.RunID }
func (e *LLMStatusEvent) Status() Status { return e.Phase }

// ActionEvent reports a tool invocation decided by the model.
type ActionEvent struct {
	eventBase
	RunID     string
	Tool      string
	ToolInput string
	Log       string
}

func (e *ActionEvent) Run() string    { return e.RunID }
func (e *ActionEvent) Status() Status { return StatusAgentAction }

// ToolStartEvent reports that a tool began executing.
type ToolStartEvent struct {
	eventBase
	RunID     string
	Tool      string
	ToolInput string
}

func (e *ToolStartEvent) Run() string    { return e.RunID }
func (e *ToolStartEvent) Status() Status { return StatusToolStart }

// ToolEndEvent reports a tool's output. Tool and ToolInput are those of the
// matching [ToolStartEvent].
type ToolEndEvent struct {
	eventBase
	RunID      string
	Tool       string
	ToolInput  string
	ToolOutput string
	IsError    bool
}

func (e *ToolEndEvent) Run() string    { return e.RunID }
func (e *ToolEndEvent) Status() Status { return StatusToolEnd }

// FinishEvent carries the final answer of a run.
type FinishEvent struct {
	eventBase
	RunID  string
	Output string
	Log    string
}

func (e *FinishEvent) Run() string    { return e.RunID }
func (e *FinishEvent) Status() Status { return StatusAgentFinish }

// eventJSON is the flat wire form shared by all events.
type eventJSON struct {
	Status      Status      `json:"status"`
	RunID       string      `json:"run_id"`
	Text        string      `json:"text,omitempty"`
	MessageType MessageType `json:"message_type,omitempty"`
	Tool        string      `json:"tool,omitempty"`
	ToolInput   string      `json:"tool_input,omitempty"`
	ToolOutput  string      `json:"tool_output,omitempty"`
	IsError     bool        `json:"is_error,omitempty"`
	Output      string      `json:"output,omitempty"`
	Log         string      `json:"log,omitempty"`
}

// MarshalEvent encodes an event as a flat JSON object discriminated by its
// numeric status.
func MarshalEvent(e RunEvent) ([]byte, error) {
	var out eventJSON
	switch v := e.(type) {
	case *LLMStatusEvent:
		out = eventJSON{Status: v.Phase, RunID: v.RunID, Text: v.Text, MessageType: v.MessageType}
	case *ActionEvent:
		out = eventJSON{Status: StatusAgentAction, RunID: v.RunID, Tool: v.Tool, ToolInput: v.ToolInput, Log: v.Log}
	case *ToolStartEvent:
		out = eventJSON{Status: StatusToolStart, RunID: v.RunID, Tool: v.Tool, ToolInput: v.ToolInput}
	case *ToolEndEvent:
		out = eventJSON{
			Status:     StatusToolEnd,
			RunID:      v.RunID,
			Tool:       v.Tool,
			ToolInput:  v.ToolInput,
			ToolOutput: v.ToolOutput,
			IsError:    v.IsError,
		}
	case *FinishEvent:
		out = eventJSON{Status: StatusAgentFinish, RunID: v.RunID, Output: v.Output, Log: v.Log}
	default:
		return nil, fmt.Errorf("unknown event type: %T", e)
	}
	return json.Marshal(out)
}

// UnmarshalEvent decodes an event produced by [MarshalEvent].
func UnmarshalEvent(data []byte) (RunEvent, error) {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}

	switch in.Status {
	case StatusLLMStart, StatusLLMNewToken, StatusLLMEnd, StatusError:
		return &LLMStatusEvent{RunID: in.RunID, Phase: in.Status, Text: in.Text, MessageType: in.MessageType}, nil
	case StatusAgentAction:
		return &ActionEvent{RunID: in.RunID, Tool: in.Tool, ToolInput: in.ToolInput, Log: in.Log}, nil
	case StatusToolStart:
		return &ToolStartEvent{RunID: in.RunID, Tool: in.Tool, ToolInput: in.ToolInput}, nil
	case StatusToolEnd:
		return &ToolEndEvent{
			RunID:      in.RunID,
			Tool:       in.Tool,
			ToolInput:  in.ToolInput,
			ToolOutput: in.ToolOutput,
			IsError:    in.IsError,
		}, nil
	case StatusAgentFinish:
		return &FinishEvent{RunID: in.RunID, Output: in.Output, Log: in.Log}, nil
	default:
		return nil, fmt.Errorf("unknown event status: %d", in.Status)
	}
}
