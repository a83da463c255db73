// Copyright (c) Microsoft. All rights reserved.

package alltools

// ToolChoice controls how the model selects tools.
type ToolChoice string

const (
	ToolChoiceAuto ToolChoice = "auto"
	ToolChoiceNone ToolChoice = "none"
)

// ChatOptions configures a single chat completion request.
// Pointer fields use nil to represent "unset" (use provider default).
type ChatOptions struct {
	ModelID     string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
	Stop        []string

	// Tools are the locally implemented tools offered to the model.
	Tools []Tool

	// ToolSpecs are passed to the vendor as-is, ahead of the specs derived
	// from Tools. Platform tools are enabled this way.
	ToolSpecs []ToolSpec

	ToolChoice   ToolChoice
	User         string
	Instructions string

	// Extra holds provider-specific options not covered by standard fields.
	Extra map[string]any
}

// MergeChatOptions produces a new ChatOptions by overlaying override values
// onto base. Nil or zero-value fields in override do not overwrite base.
// Tools are merged by name (override replaces same-named tools), tool specs
// are appended, Extra is merged (override keys win) and instructions are
// concatenated.
func MergeChatOptions(base, override *ChatOptions) *ChatOptions {
	if base == nil {
		if override == nil {
			return &ChatOptions{}
		}
		cp := *override
		return &cp
	}
	if override == nil {
		cp := *base
		return &cp
	}

	merged := *base

	if override.ModelID != "" {
		merged.ModelID = override.ModelID
	}
	if override.Temperature != nil {
		merged.Temperature = override.Temperature
	}
	if override.TopP != nil {
		merged.TopP = override.TopP
	}
	if override.MaxTokens != nil {
		merged.MaxTokens = override.MaxTokens
	}
	if len(override.Stop) > 0 {
		merged.Stop = override.Stop
	}
	if override.ToolChoice != "" {
		merged.ToolChoice = override.ToolChoice
	}
	if override.User != "" {
		merged.User = override.User
	}

	if override.Instructions != "" {
		if merged.Instructions != "" {
			merged.Instructions += "\n" + override.Instructions
		} else {
			merged.Instructions = override.Instructions
		}
	}

	if len(override.Tools) > 0 {
		merged.Tools = mergeTools(merged.Tools, override.Tools)
	}

	if len(override.ToolSpecs) > 0 {
		specs := make([]ToolSpec, 0, len(merged.ToolSpecs)+len(override.ToolSpecs))
		specs = append(specs, merged.ToolSpecs...)
		merged.ToolSpecs = append(specs, override.ToolSpecs...)
	}

	if len(override.Extra) > 0 {
		extra := make(map[string]any, len(merged.Extra)+len(override.Extra))
		for k, v := range merged.Extra {
			extra[k] = v
		}
		for k, v := range override.Extra {
			extra[k] = v
		}
		merged.Extra = extra
	}

	return &merged
}

// mergeTools keeps base order, replacing same-named tools with the override
// and appending new ones.
func mergeTools(base, override []Tool) []Tool {
	byName := make(map[string]Tool, len(base)+len(override))
	for _, t := range base {
		byName[t.Name()] = t
	}
	for _, t := range override {
		byName[t.Name()] = t
	}
	tools := make([]Tool, 0, len(byName))
	seen := make(map[string]bool, len(byName))
	for _, t := range base {
		if !seen[t.Name()] {
			tools = append(tools, byName[t.Name()])
			seen[t.Name()] = true
		}
	}
	for _, t := range override {
		if !seen[t.Name()] {
			tools = append(tools, t)
			seen[t.Name()] = true
		}
	}
	return tools
}
