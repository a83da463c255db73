// Copyright (c) Microsoft. All rights reserved.

package alltools_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func TestChatResponseFromUpdates(t *testing.T) {
	updates := []at.ChatResponseUpdate{
		{Role: at.RoleAssistant, ResponseID: "resp-1", Text: "Hello, "},
		{Text: "world!"},
		{FinishReason: at.FinishReasonStop, Usage: at.UsageDetails{InputTokens: 5, OutputTokens: 3, TotalTokens: 8}},
	}

	resp := at.ChatResponseFromUpdates(updates)

	assert.Equal(t, "resp-1", resp.ResponseID)
	assert.Equal(t, at.FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 8, resp.Usage.TotalTokens)
	assert.Equal(t, at.RoleAssistant, resp.Message.Role)
	assert.Equal(t, "Hello, world!", resp.Text())
}

func TestChatResponseFromUpdates_ToolCalls(t *testing.T) {
	updates := []at.ChatResponseUpdate{
		{ToolCalls: []at.ToolCallFragment{{Name: "get_weather", ID: "c1", Arguments: `{"city":`, Index: intPtr(0)}}},
		{ToolCalls: []at.ToolCallFragment{{Name: "code_interpreter", Decoded: map[string]any{"input": "print("}}}},
		{ToolCalls: []at.ToolCallFragment{{Arguments: `"Paris"}`, Index: intPtr(0)}}},
		{ToolCalls: []at.ToolCallFragment{{Name: "code_interpreter", Decoded: map[string]any{"input": "1)"}}}},
		{AdditionalToolCalls: []json.RawMessage{json.RawMessage(`{"type":"web_browser"}`)}},
	}

	msg := at.ChatResponseFromUpdates(updates).Message
	require.Len(t, msg.ToolCalls, 3)

	fn := msg.ToolCalls[0]
	assert.Equal(t, "get_weather", fn.Name)
	assert.Equal(t, "c1", fn.ID)
	assert.Equal(t, `{"city":"Paris"}`, fn.Arguments)
	assert.Nil(t, fn.Index)

	assert.Equal(t, "print(", msg.ToolCalls[1].Decoded["input"])
	assert.Equal(t, "1)", msg.ToolCalls[2].Decoded["input"])
	assert.Len(t, msg.AdditionalToolCalls, 1)
}

func TestUsageDetails_Add(t *testing.T) {
	u := at.UsageDetails{InputTokens: 1, OutputTokens: 2, TotalTokens: 3}
	u.Add(at.UsageDetails{InputTokens: 10, OutputTokens: 20, TotalTokens: 30})
	assert.Equal(t, at.UsageDetails{InputTokens: 11, OutputTokens: 22, TotalTokens: 33}, u)
}
