// Copyright (c) Microsoft. All rights reserved.

package alltools

import "encoding/json"

// Role identifies the author of a [Message].
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
)

// Message represents a single chat message exchanged with a model.
//
// Assistant messages may carry tool calls in two shapes: ToolCalls holds the
// structured fragments produced by a client, and AdditionalToolCalls holds the
// raw vendor records (`{"id", "type", "function"|"<platform type>": {...}}`)
// for clients that do not decode them.
type Message struct {
	Role       Role               `json:"role"`
	Content    string             `json:"content,omitempty"`
	Name       string             `json:"name,omitempty"`
	ToolCalls  []ToolCallFragment `json:"tool_calls,omitempty"`
	ToolCallID string             `json:"tool_call_id,omitempty"`

	// AdditionalToolCalls holds undecoded vendor tool-call records.
	AdditionalToolCalls []json.RawMessage `json:"additional_tool_calls,omitempty"`

	// Extra holds provider-specific metadata not covered by standard fields.
	Extra map[string]any `json:"-"`

	// Raw holds the original provider-specific representation, if any.
	Raw any `json:"-"`
}

// HasToolCalls reports whether the message carries tool calls in either shape.
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0 || len(m.AdditionalToolCalls) > 0
}

// NewUserMessage creates a user-role [Message] from a text string.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewAssistantMessage creates an assistant-role [Message] from a text string.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// NewSystemMessage creates a system-role [Message] from a text string.
func NewSystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: text}
}

// NewToolMessage creates a tool-role [Message] answering the call callID.
func NewToolMessage(callID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: callID, Content: content}
}

// PrependInstructions inserts a system message at the beginning of the message
// list if instructions are non-empty and no system message already exists.
func PrependInstructions(messages []Message, instructions string) []Message {
	if instructions == "" {
		return messages
	}
	for _, m := range messages {
		if m.Role == RoleSystem {
			return messages
		}
	}
	return append([]Message{NewSystemMessage(instructions)}, messages...)
}
