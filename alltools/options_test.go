// Copyright (c) Microsoft. All rights reserved.

package alltools_test

import (
	"testing"

	at "github.com/microsoft/agent-framework-glm/go/alltools"
)

func TestMergeChatOptions_NilBase(t *testing.T) {
	temp := 0.7
	override := &at.ChatOptions{Temperature: &temp, ModelID: "glm-4-alltools"}
	merged := at.MergeChatOptions(nil, override)

	if merged.ModelID != "glm-4-alltools" {
		t.Errorf("ModelID = %q", merged.ModelID)
	}
	if merged.Temperature == nil || *merged.Temperature != 0.7 {
		t.Errorf("Temperature = %v", merged.Temperature)
	}
	if merged == override {
		t.Error("expected a copy of override")
	}
}

func TestMergeChatOptions_NilOverride(t *testing.T) {
	base := &at.ChatOptions{ModelID: "glm-4"}
	merged := at.MergeChatOptions(base, nil)

	if merged.ModelID != "glm-4" {
		t.Errorf("ModelID = %q", merged.ModelID)
	}
}

func TestMergeChatOptions_BothNil(t *testing.T) {
	merged := at.MergeChatOptions(nil, nil)
	if merged == nil {
		t.Fatal("expected non-nil result")
	}
}

func TestMergeChatOptions_OverrideWins(t *testing.T) {
	baseTemp := 0.5
	overTemp := 0.9
	base := &at.ChatOptions{
		ModelID:     "base-model",
		Temperature: &baseTemp,
		User:        "user1",
		ToolChoice:  at.ToolChoiceAuto,
	}
	override := &at.ChatOptions{
		ModelID:     "override-model",
		Temperature: &overTemp,
		ToolChoice:  at.ToolChoiceNone,
	}
	merged := at.MergeChatOptions(base, override)

	if merged.ModelID != "override-model" {
		t.Errorf("ModelID = %q, want override-model", merged.ModelID)
	}
	if *merged.Temperature != 0.9 {
		t.Errorf("Temperature = %f, want 0.9", *merged.Temperature)
	}
	if merged.User != "user1" {
		t.Errorf("User = %q, want user1 (preserved from base)", merged.User)
	}
	if merged.ToolChoice != at.ToolChoiceNone {
		t.Errorf("ToolChoice = %q", merged.ToolChoice)
	}
}

func TestMergeChatOptions_InstructionsConcatenate(t *testing.T) {
	base := &at.ChatOptions{Instructions: "Be helpful"}
	override := &at.ChatOptions{Instructions: "Be concise"}
	merged := at.MergeChatOptions(base, override)

	expected := "Be helpful\nBe concise"
	if merged.Instructions != expected {
		t.Errorf("Instructions = %q, want %q", merged.Instructions, expected)
	}
}

func TestMergeChatOptions_ExtraMerge(t *testing.T) {
	base := &at.ChatOptions{
		Extra: map[string]any{"a": "1", "b": "2"},
	}
	override := &at.ChatOptions{
		Extra: map[string]any{"b": "override", "c": "3"},
	}
	merged := at.MergeChatOptions(base, override)

	if merged.Extra["a"] != "1" {
		t.Errorf("extra[a] = %v", merged.Extra["a"])
	}
	if merged.Extra["b"] != "override" {
		t.Errorf("extra[b] = %v, want override", merged.Extra["b"])
	}
	if merged.Extra["c"] != "3" {
		t.Errorf("extra[c] = %v", merged.Extra["c"])
	}
	if base.Extra["b"] != "2" {
		t.Error("base extra was mutated")
	}
}

func TestMergeChatOptions_ToolsAndSpecs(t *testing.T) {
	first := at.NewTextTool("search", "v1", nil)
	second := at.NewTextTool("search", "v2", nil)
	other := at.NewTextTool("clock", "", nil)

	base := &at.ChatOptions{
		Tools:     []at.Tool{first, other},
		ToolSpecs: []at.ToolSpec{at.PlatformSpec(at.FamilyWebBrowser, nil)},
	}
	override := &at.ChatOptions{
		Tools:     []at.Tool{second},
		ToolSpecs: []at.ToolSpec{at.PlatformSpec(at.FamilyDrawingTool, nil)},
	}
	merged := at.MergeChatOptions(base, override)

	if len(merged.Tools) != 2 {
		t.Fatalf("tools len = %d, want 2", len(merged.Tools))
	}
	if merged.Tools[0].Description() != "v2" || merged.Tools[1].Name() != "clock" {
		t.Errorf("tools = %s/%s, %s", merged.Tools[0].Name(), merged.Tools[0].Description(), merged.Tools[1].Name())
	}
	if len(merged.ToolSpecs) != 2 || merged.ToolSpecs[1].Type != "drawing_tool" {
		t.Errorf("tool specs = %+v", merged.ToolSpecs)
	}
	if len(base.ToolSpecs) != 1 {
		t.Error("base tool specs were mutated")
	}
}
