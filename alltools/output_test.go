// Copyright (c) Microsoft. All rights reserved.

package alltools_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func TestToolOutput_Render(t *testing.T) {
	tests := []struct {
		name string
		out  at.ToolOutput
		want string
	}{
		{"text string", at.TextOutput("plain"), "plain"},
		{"text nil", at.TextOutput(nil), ""},
		{"text number", at.TextOutput(42), "42"},
		{"json object", at.JSONOutput(map[string]any{"url": "https://x/a&b"}), "{\n  \"url\": \"https://x/a&b\"\n}"},
		{"json list", at.JSONOutput([]int{1, 2}), "[\n  1,\n  2\n]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.out.Render())
		})
	}
}
