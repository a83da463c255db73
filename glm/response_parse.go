// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tidwall/gjson"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

// chatCompletionResponse is the chat completions response.
type chatCompletionResponse struct {
	ID      string   `json:"id"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	Message      respMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type respMessage struct {
	Role      string     `json:"role"`
	Content   *string    `json:"content"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// chatCompletionChunk is a single SSE chunk in streaming mode.
type chatCompletionChunk struct {
	ID      string        `json:"id"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []chunkChoice `json:"choices"`
	Usage   *usage        `json:"usage,omitempty"`
}

type chunkChoice struct {
	Index        int        `json:"index"`
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Role      string     `json:"role,omitempty"`
	Content   *string    `json:"content,omitempty"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

// UnmarshalJSON reads the common fields and, for platform calls, the payload
// stored under the key named by the call's type.
func (tc *toolCall) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: invalid tool call", at.ErrInvalidResponse)
	}
	rec := gjson.ParseBytes(data)

	*tc = toolCall{
		ID:   rec.Get("id").String(),
		Type: rec.Get("type").String(),
	}
	if idx := rec.Get("index"); idx.Exists() {
		i := int(idx.Int())
		tc.Index = &i
	}

	if fn := rec.Get("function"); fn.IsObject() {
		tc.Function = &functionCall{Name: fn.Get("name").String()}
		switch args := fn.Get("arguments"); {
		case args.Type == gjson.String:
			tc.Function.Arguments = args.String()
		case args.Exists() && args.Type != gjson.Null:
			tc.Function.Arguments = args.Raw
		}
		if tc.Type == "" {
			tc.Type = "function"
		}
		return nil
	}

	if tc.Type != "" {
		if p := rec.Get(tc.Type); p.Exists() && p.Type != gjson.Null {
			tc.Payload = json.RawMessage(p.Raw)
		}
	}
	return nil
}

// fragment converts a wire tool call into a fragment. ok is false for calls
// of unknown type.
func (tc *toolCall) fragment() (at.ToolCallFragment, bool) {
	if tc.Function != nil {
		return at.ToolCallFragment{
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
			ID:        tc.ID,
			Index:     tc.Index,
		}, true
	}

	if !at.FamilyOf(tc.Type).IsPlatform() {
		slog.Warn("skipping tool call of unknown type", "type", tc.Type, "id", tc.ID)
		return at.ToolCallFragment{}, false
	}
	f := at.ToolCallFragment{Name: tc.Type, ID: tc.ID, Index: tc.Index}
	if len(tc.Payload) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(tc.Payload, &decoded); err == nil && decoded != nil {
			f.Decoded = decoded
		} else {
			f.Arguments = string(tc.Payload)
		}
	}
	return f, true
}

func fragments(calls []toolCall) []at.ToolCallFragment {
	var out []at.ToolCallFragment
	for i := range calls {
		if f, ok := calls[i].fragment(); ok {
			out = append(out, f)
		}
	}
	return out
}

func convertUsage(u *usage) at.UsageDetails {
	if u == nil {
		return at.UsageDetails{}
	}
	return at.UsageDetails{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
}

// parseChatResponse converts a complete response into framework types. Calls
// that arrive whole lose their index.
func parseChatResponse(raw *chatCompletionResponse) *at.ChatResponse {
	resp := &at.ChatResponse{
		ResponseID: raw.ID,
		ModelID:    raw.Model,
		Usage:      convertUsage(raw.Usage),
		Message:    at.Message{Role: at.RoleAssistant},
	}

	if len(raw.Choices) > 0 {
		c := raw.Choices[0]
		resp.FinishReason = mapFinishReason(c.FinishReason)
		if c.Message.Role != "" {
			resp.Message.Role = at.Role(c.Message.Role)
		}
		if c.Message.Content != nil {
			resp.Message.Content = *c.Message.Content
		}
		resp.Message.ToolCalls = fragments(c.Message.ToolCalls)
		for i := range resp.Message.ToolCalls {
			resp.Message.ToolCalls[i].Index = nil
		}
	}

	return resp
}

// parseChunk converts a streaming chunk into a ChatResponseUpdate.
func parseChunk(chunk *chatCompletionChunk) *at.ChatResponseUpdate {
	update := &at.ChatResponseUpdate{
		ResponseID: chunk.ID,
		ModelID:    chunk.Model,
		Usage:      convertUsage(chunk.Usage),
	}

	if len(chunk.Choices) > 0 {
		c := chunk.Choices[0]
		if c.Delta.Role != "" {
			update.Role = at.Role(c.Delta.Role)
		}
		if c.FinishReason != nil {
			update.FinishReason = mapFinishReason(*c.FinishReason)
		}
		if c.Delta.Content != nil {
			update.Text = *c.Delta.Content
		}
		update.ToolCalls = fragments(c.Delta.ToolCalls)
	}

	return update
}

// unmarshalChatResponse parses the JSON response body.
func unmarshalChatResponse(data []byte) (*chatCompletionResponse, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func mapFinishReason(s string) at.FinishReason {
	switch s {
	case "stop":
		return at.FinishReasonStop
	case "length":
		return at.FinishReasonLength
	case "tool_calls":
		return at.FinishReasonToolCalls
	case "sensitive", "content_filter":
		return at.FinishReasonContentFilter
	default:
		return at.FinishReason(s)
	}
}
