// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// OutputFormat selects how a [ToolOutput] is rendered for the model.
type OutputFormat int

const (
	// FormatText renders strings as-is and other values with fmt.
	FormatText OutputFormat = iota
	// FormatJSON renders the data as indented JSON.
	FormatJSON
)

// ToolOutput is the normalized result of a tool call. Data keeps the
// structured value for programmatic callers; [ToolOutput.Render] produces the
// text sent back to the model.
type ToolOutput struct {
	Data   any
	Format OutputFormat

	// Extras carries side information such as platform parameters.
	Extras map[string]any
}

// TextOutput wraps data for plain-text rendering.
func TextOutput(data any) ToolOutput {
	return ToolOutput{Data: data, Format: FormatText}
}

// JSONOutput wraps data for JSON rendering.
func JSONOutput(data any) ToolOutput {
	return ToolOutput{Data: data, Format: FormatJSON}
}

// Render returns the textual form of the output.
func (o ToolOutput) Render() string {
	switch o.Format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(o.Data); err != nil {
			return fmt.Sprint(o.Data)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	default:
		if s, ok := o.Data.(string); ok {
			return s
		}
		if o.Data == nil {
			return ""
		}
		return fmt.Sprint(o.Data)
	}
}

// normalizeOutput converts whatever a tool returned into a ToolOutput.
// Strings stay text; structured values render as JSON.
func normalizeOutput(v any) ToolOutput {
	switch x := v.(type) {
	case ToolOutput:
		return x
	case *ToolOutput:
		if x == nil {
			return TextOutput("")
		}
		return *x
	case string:
		return TextOutput(x)
	case nil:
		return TextOutput("")
	case fmt.Stringer:
		return TextOutput(x.String())
	default:
		return JSONOutput(x)
	}
}

// formatToolInput renders a tool input for logs: strings verbatim,
// everything else as compact JSON.
func formatToolInput(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
