// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"
	"strings"
)

// ChatResponse is the complete (non-streaming) response from a [ChatClient].
type ChatResponse struct {
	Message      Message
	ResponseID   string
	ModelID      string
	FinishReason FinishReason
	Usage        UsageDetails
	Raw          any
}

// Text returns the text of the response message.
func (r *ChatResponse) Text() string { return r.Message.Content }

// ChatResponseUpdate is a single chunk received during streaming from a [ChatClient].
type ChatResponseUpdate struct {
	Text      string
	ToolCalls []ToolCallFragment
	Role      Role

	// AdditionalToolCalls carries undecoded vendor tool-call records.
	AdditionalToolCalls []json.RawMessage

	ResponseID   string
	ModelID      string
	FinishReason FinishReason
	Usage        UsageDetails
	Raw          any
}

// AgentResponse is the result of an [Agent] run.
type AgentResponse struct {
	// Output is the final answer.
	Output string
	Log    string

	// Messages is the conversation produced by the run, excluding the input.
	Messages []Message

	// Steps is the number of model calls made.
	Steps int
	Usage UsageDetails
}

// ChatResponseFromUpdates builds a complete [ChatResponse] by merging a
// sequence of streaming updates.
//
// Text deltas are concatenated. Function-call deltas sharing an index are
// merged into one whole call: the first name and id win and argument text is
// appended. Platform tool-call deltas are kept as separate fragments, in
// order, since each one carries its own slice of input or outputs.
func ChatResponseFromUpdates(updates []ChatResponseUpdate) *ChatResponse {
	resp := &ChatResponse{}
	var (
		text    strings.Builder
		calls   []ToolCallFragment
		byIndex = map[int]int{}
		legacy  []json.RawMessage
	)

	role := RoleAssistant
	for i, u := range updates {
		if i == 0 && u.Role != "" {
			role = u.Role
		}
		text.WriteString(u.Text)
		legacy = append(legacy, u.AdditionalToolCalls...)

		for _, f := range u.ToolCalls {
			if FamilyOf(f.Name).IsPlatform() || f.Index == nil {
				calls = append(calls, f)
				continue
			}
			pos, ok := byIndex[*f.Index]
			if !ok {
				byIndex[*f.Index] = len(calls)
				calls = append(calls, f)
				continue
			}
			merged := &calls[pos]
			if merged.Name == "" {
				merged.Name = f.Name
			}
			if merged.ID == "" {
				merged.ID = f.ID
			}
			merged.Arguments += f.Arguments
			if f.Decoded != nil {
				merged.Decoded = f.Decoded
			}
		}

		if u.ResponseID != "" {
			resp.ResponseID = u.ResponseID
		}
		if u.ModelID != "" {
			resp.ModelID = u.ModelID
		}
		if u.FinishReason != "" {
			resp.FinishReason = u.FinishReason
		}
		if u.Usage.TotalTokens > 0 {
			resp.Usage = u.Usage
		}
	}

	// The stream is over, so merged function calls are whole.
	for _, pos := range byIndex {
		calls[pos].Index = nil
	}

	resp.Message = Message{
		Role:                role,
		Content:             text.String(),
		ToolCalls:           calls,
		AdditionalToolCalls: legacy,
	}
	return resp
}
