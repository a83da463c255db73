// Copyright (c) Microsoft. All rights reserved.

package glm

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func TestFragmentToWire_PlatformPayload(t *testing.T) {
	tc := fragmentToWire(at.ToolCallFragment{
		ID:      "c1",
		Name:    "code_interpreter",
		Decoded: map[string]any{"input": "x = 1"},
	})
	assert.Equal(t, "code_interpreter", tc.Type)
	assert.JSONEq(t, `{"input":"x = 1"}`, string(tc.Payload))

	raw := fragmentToWire(at.ToolCallFragment{Name: "web_browser", Arguments: `{"input":"q"}`})
	assert.JSONEq(t, `{"input":"q"}`, string(raw.Payload))
}

func TestFragmentToWire_UnencodableDecoded(t *testing.T) {
	tc := fragmentToWire(at.ToolCallFragment{
		Name:    "drawing_tool",
		Decoded: map[string]any{"size": math.Inf(1)},
	})
	assert.Equal(t, "drawing_tool", tc.Type)
	assert.Empty(t, tc.Payload)

	_, err := json.Marshal(tc)
	require.NoError(t, err)

	fn := fragmentToWire(at.ToolCallFragment{
		Name:      "add",
		Arguments: `{"a":1}`,
		Decoded:   map[string]any{"a": math.NaN()},
	})
	require.NotNil(t, fn.Function)
	assert.Equal(t, `{"a":1}`, fn.Function.Arguments)
}
