// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"encoding/json"
	"log/slog"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

// chatRequest is the chat completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
	Tools       []at.ToolSpec `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	User        string        `json:"user_id,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []toolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// toolCall is one tool call on the wire. Function calls carry Function;
// platform calls carry their payload under a key named after Type, held in
// Payload.
type toolCall struct {
	ID       string
	Type     string
	Index    *int
	Function *functionCall
	Payload  json.RawMessage
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// buildRequest converts framework types into a chat completions request.
// Tool specs pass through untouched, followed by a function spec for each
// local tool.
func buildRequest(messages []at.Message, opts *at.ChatOptions, defaultModel string) *chatRequest {
	req := &chatRequest{Model: defaultModel}
	if opts != nil {
		if opts.ModelID != "" {
			req.Model = opts.ModelID
		}
		req.Temperature = opts.Temperature
		req.TopP = opts.TopP
		req.MaxTokens = opts.MaxTokens
		req.Stop = opts.Stop
		req.User = opts.User
		req.ToolChoice = string(opts.ToolChoice)
		req.Tools = at.MergeToolSpecs(opts.Tools, opts.ToolSpecs)
	}
	req.Messages = convertMessages(messages)
	return req
}

// convertMessages translates framework messages into wire messages.
func convertMessages(messages []at.Message) []chatMessage {
	result := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		cm := chatMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		if msg.Role == at.RoleAssistant {
			for _, f := range msg.ToolCalls {
				cm.ToolCalls = append(cm.ToolCalls, fragmentToWire(f))
			}
			for _, rec := range msg.AdditionalToolCalls {
				var tc toolCall
				if err := json.Unmarshal(rec, &tc); err != nil {
					slog.Warn("dropping undecodable tool call record", "error", err)
					continue
				}
				cm.ToolCalls = append(cm.ToolCalls, tc)
			}
		}
		result = append(result, cm)
	}
	return result
}

func fragmentToWire(f at.ToolCallFragment) toolCall {
	tc := toolCall{ID: f.ID, Type: f.Name}

	if !at.FamilyOf(f.Name).IsPlatform() {
		args := f.Arguments
		if f.Decoded != nil {
			b, err := json.Marshal(f.Decoded)
			if err != nil {
				slog.Warn("dropping unencodable tool call arguments", "tool", f.Name, "error", err)
			} else {
				args = string(b)
			}
		}
		tc.Type = "function"
		tc.Function = &functionCall{Name: f.Name, Arguments: args}
		return tc
	}

	switch {
	case f.Decoded != nil:
		b, err := json.Marshal(f.Decoded)
		if err != nil {
			slog.Warn("dropping unencodable platform payload", "type", f.Name, "error", err)
			break
		}
		tc.Payload = b
	case json.Valid([]byte(f.Arguments)):
		tc.Payload = json.RawMessage(f.Arguments)
	}
	return tc
}

// MarshalJSON writes the platform payload under the key named by Type.
func (tc toolCall) MarshalJSON() ([]byte, error) {
	out := map[string]any{"type": tc.Type}
	if tc.ID != "" {
		out["id"] = tc.ID
	}
	if tc.Index != nil {
		out["index"] = *tc.Index
	}
	if tc.Function != nil {
		out["function"] = tc.Function
	} else if len(tc.Payload) > 0 {
		out[tc.Type] = tc.Payload
	}
	return json.Marshal(out)
}
