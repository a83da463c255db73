// Copyright (c) Microsoft. All rights reserved.

package alltools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func classifyAll(t *testing.T, frags ...at.ToolCallFragment) []at.ClassifiedCall {
	t.Helper()
	calls := make([]at.ClassifiedCall, 0, len(frags))
	for _, f := range frags {
		c, err := at.Classify(f)
		require.NoError(t, err)
		calls = append(calls, c)
	}
	return calls
}

func TestReassemble_CodeInterpreter(t *testing.T) {
	msg := &at.Message{Role: at.RoleAssistant}
	calls := classifyAll(t,
		at.ToolCallFragment{Name: "code_interpreter", Decoded: map[string]any{"input": "print("}, ID: "ci_1"},
		at.ToolCallFragment{Name: "code_interpreter", Decoded: map[string]any{"input": "1)"}},
		at.ToolCallFragment{Name: "code_interpreter", Decoded: map[string]any{
			"outputs": []any{map[string]any{"type": "logs", "logs": "1"}},
		}},
	)

	inv, err := at.Reassemble(at.FamilyCodeInterpreter, msg, calls, map[string]any{"sandbox": "auto"})
	require.NoError(t, err)

	assert.Equal(t, "code_interpreter", inv.Tool)
	assert.Equal(t, "print(1)", inv.ToolInput)
	assert.Equal(t, "print(1)\n1\n", inv.Log)
	assert.Equal(t, "ci_1", inv.CallID)
	assert.Equal(t, at.FamilyCodeInterpreter, inv.Family)
	assert.Equal(t, []any{map[string]any{"type": "logs", "logs": "1"}}, inv.Outputs)
	assert.Equal(t, map[string]any{"sandbox": "auto"}, inv.PlatformParams)
	assert.Same(t, msg, inv.Message)
}

func TestReassemble_DisplayKeys(t *testing.T) {
	tests := []struct {
		family at.Family
		output map[string]any
		log    string
	}{
		{at.FamilyDrawingTool, map[string]any{"image": "https://img/1.png"}, "a cat\nhttps://img/1.png\n"},
		{at.FamilyWebBrowser, map[string]any{"title": "t", "link": "l", "content": "page text"}, "a cat\npage text\n"},
	}
	for _, tc := range tests {
		t.Run(tc.family.String(), func(t *testing.T) {
			calls := classifyAll(t,
				at.ToolCallFragment{Name: tc.family.String(), Decoded: map[string]any{"input": "a cat"}},
				at.ToolCallFragment{Name: tc.family.String(), Decoded: map[string]any{"outputs": []any{tc.output}}},
			)
			inv, err := at.Reassemble(tc.family, nil, calls, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.log, inv.Log)
			assert.Equal(t, at.PlaceholderCallID, inv.CallID)
		})
	}
}

func TestReassemble_Failures(t *testing.T) {
	tests := []struct {
		name  string
		calls []at.ToolCallFragment
	}{
		{"input not a string", []at.ToolCallFragment{
			{Name: "code_interpreter", Decoded: map[string]any{"input": 3}},
			{Name: "code_interpreter", Decoded: map[string]any{"input": "x"}},
		}},
		{"outputs not a list", []at.ToolCallFragment{
			{Name: "code_interpreter", Decoded: map[string]any{"input": "x"}},
			{Name: "code_interpreter", Decoded: map[string]any{"outputs": "nope"}},
		}},
		{"display field not a string", []at.ToolCallFragment{
			{Name: "code_interpreter", Decoded: map[string]any{"input": "x"}},
			{Name: "code_interpreter", Decoded: map[string]any{"outputs": []any{map[string]any{"logs": 1}}}},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := at.Reassemble(at.FamilyCodeInterpreter, nil, classifyAll(t, tc.calls...), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, at.ErrToolInputParse)

			var pe *at.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "code_interpreter", pe.Tool)
		})
	}
}

func TestReassemble_RejectsFunctionFamily(t *testing.T) {
	_, err := at.Reassemble(at.FamilyFunction, nil, nil, nil)
	assert.ErrorIs(t, err, at.ErrToolInputParse)
}
