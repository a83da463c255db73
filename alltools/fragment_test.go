// Copyright (c) Microsoft. All rights reserved.

package alltools_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func intPtr(i int) *int { return &i }

func TestClassify_CompleteAndPending(t *testing.T) {
	tests := []struct {
		name  string
		frag  at.ToolCallFragment
		state at.CallState
		args  map[string]any
	}{
		{
			name:  "complete text args",
			frag:  at.ToolCallFragment{Name: "add", Arguments: `{"a":1,"b":2}`, ID: "x"},
			state: at.CallComplete,
			args:  map[string]any{"a": float64(1), "b": float64(2)},
		},
		{
			name:  "truncated text args still complete",
			frag:  at.ToolCallFragment{Name: "code_interpreter", Arguments: `{"input": "impo`},
			state: at.CallComplete,
			args:  map[string]any{"input": "impo"},
		},
		{
			name:  "raw control characters in args",
			frag:  at.ToolCallFragment{Name: "f", Arguments: "{\"input\": \"def f():\n\treturn 1\r\n\"}"},
			state: at.CallComplete,
			args:  map[string]any{"input": "def f():\n\treturn 1\r\n"},
		},
		{
			name:  "decoded args",
			frag:  at.ToolCallFragment{Name: "web_browser", Decoded: map[string]any{"input": "q"}},
			state: at.CallComplete,
			args:  map[string]any{"input": "q"},
		},
		{
			name:  "empty object",
			frag:  at.ToolCallFragment{Name: "add", Arguments: `{}`, Index: intPtr(0)},
			state: at.CallPending,
			args:  map[string]any{},
		},
		{
			name:  "blank text",
			frag:  at.ToolCallFragment{Name: "add", Arguments: "  "},
			state: at.CallPending,
			args:  map[string]any{},
		},
		{
			name:  "empty decoded",
			frag:  at.ToolCallFragment{Name: "drawing_tool", Decoded: map[string]any{}},
			state: at.CallPending,
			args:  map[string]any{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := at.Classify(tc.frag)
			require.NoError(t, err)
			assert.Equal(t, tc.state, c.State)
			assert.Equal(t, tc.args, c.Args)
			assert.Equal(t, tc.frag.Name, c.Name)
			assert.Equal(t, tc.frag.ID, c.ID)
			assert.Equal(t, tc.frag.Index, c.Index)
		})
	}
}

func TestClassify_Malformed(t *testing.T) {
	for _, args := range []string{`[1,2]`, `"text"`, `42`, `{"a": ]`} {
		_, err := at.Classify(at.ToolCallFragment{Name: "f", Arguments: args})
		require.Error(t, err, "args %s", args)
		assert.ErrorIs(t, err, at.ErrMalformedArgs)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	frag := at.ToolCallFragment{
		Name:    "code_interpreter",
		Decoded: map[string]any{"input": "x = 1", "outputs": []any{map[string]any{"logs": "ok"}}},
		ID:      "call_1",
		Index:   intPtr(2),
	}

	first, err := at.Classify(frag)
	require.NoError(t, err)
	first.Args["input"] = "mutated"

	second, err := at.Classify(frag)
	require.NoError(t, err)
	third, err := at.Classify(frag)
	require.NoError(t, err)

	assert.Equal(t, second, third)
	assert.Equal(t, "x = 1", frag.Decoded["input"])
	assert.Equal(t, "x = 1", second.Args["input"])
}

func TestToolCallFragment_JSONArgsShapes(t *testing.T) {
	var fromString at.ToolCallFragment
	require.NoError(t, json.Unmarshal([]byte(`{"name":"add","args":"{\"a\":1}","id":"x"}`), &fromString))
	assert.Equal(t, `{"a":1}`, fromString.Arguments)
	assert.Nil(t, fromString.Decoded)

	var fromObject at.ToolCallFragment
	require.NoError(t, json.Unmarshal([]byte(`{"name":"add","args":{"a":1},"index":3}`), &fromObject))
	assert.Equal(t, map[string]any{"a": float64(1)}, fromObject.Decoded)
	require.NotNil(t, fromObject.Index)
	assert.Equal(t, 3, *fromObject.Index)

	var bad at.ToolCallFragment
	err := json.Unmarshal([]byte(`{"name":"add","args":[1]}`), &bad)
	assert.ErrorIs(t, err, at.ErrMalformedArgs)

	b, err := json.Marshal(fromObject)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"add","args":{"a":1},"index":3}`, string(b))
}
