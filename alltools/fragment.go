// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
)

// ToolCallFragment is one raw tool-call unit produced by a model client. A
// streamed call may arrive as several fragments sharing a name and id.
type ToolCallFragment struct {
	Name string

	// Arguments is JSON text that may be truncated mid-stream.
	Arguments string

	// Decoded is an already-decoded argument mapping. It takes precedence
	// over Arguments when non-nil.
	Decoded map[string]any

	ID string

	// Index is the fragment's position within a streamed batch; nil for a
	// call that arrived whole.
	Index *int
}

type fragmentJSON struct {
	Name  string          `json:"name"`
	Args  json.RawMessage `json:"args,omitempty"`
	ID    string          `json:"id,omitempty"`
	Index *int            `json:"index,omitempty"`
}

// MarshalJSON encodes args as an object when decoded, or as the raw string.
func (f ToolCallFragment) MarshalJSON() ([]byte, error) {
	out := fragmentJSON{Name: f.Name, ID: f.ID, Index: f.Index}
	var err error
	if f.Decoded != nil {
		out.Args, err = json.Marshal(f.Decoded)
	} else if f.Arguments != "" {
		out.Args, err = json.Marshal(f.Arguments)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts args either as a JSON string or as an object.
func (f *ToolCallFragment) UnmarshalJSON(data []byte) error {
	var in fragmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = ToolCallFragment{Name: in.Name, ID: in.ID, Index: in.Index}
	raw := strings.TrimSpace(string(in.Args))
	switch {
	case raw == "" || raw == "null":
	case raw[0] == '"':
		return json.Unmarshal(in.Args, &f.Arguments)
	case raw[0] == '{':
		return json.Unmarshal(in.Args, &f.Decoded)
	default:
		return fmt.Errorf("%w: args must be a string or an object", ErrMalformedArgs)
	}
	return nil
}

// CallState tells whether a classified call carries usable arguments yet.
type CallState int

const (
	// CallPending is a chunk whose arguments are still empty.
	CallPending CallState = iota
	// CallComplete is a call with a non-empty argument mapping.
	CallComplete
)

func (s CallState) String() string {
	if s == CallComplete {
		return "complete"
	}
	return "pending"
}

// ClassifiedCall is a fragment whose arguments have been decoded.
type ClassifiedCall struct {
	State CallState
	Name  string
	Args  map[string]any
	ID    string
	Index *int
}

// Complete reports whether the call carries a non-empty argument mapping.
func (c ClassifiedCall) Complete() bool { return c.State == CallComplete }

// Classify decodes a fragment's arguments and classifies it as complete
// (non-empty mapping) or pending (empty mapping). Argument text that decodes
// to anything other than a mapping fails with [ErrMalformedArgs].
//
// Classify has no side effects: the returned Args never aliases the
// fragment's Decoded map.
func Classify(f ToolCallFragment) (ClassifiedCall, error) {
	var args map[string]any
	switch {
	case f.Decoded != nil:
		args = maps.Clone(f.Decoded)
	case strings.TrimSpace(f.Arguments) == "":
		args = map[string]any{}
	default:
		v, err := DecodePartial(f.Arguments)
		if err != nil {
			return ClassifiedCall{}, &ParseError{
				Tool:    f.Name,
				Message: "the arguments are not valid JSON: " + err.Error(),
				Err:     ErrMalformedArgs,
			}
		}
		m, ok := v.(map[string]any)
		if !ok {
			return ClassifiedCall{}, &ParseError{
				Tool:    f.Name,
				Message: fmt.Sprintf("the arguments decode to %T, not an object", v),
				Err:     ErrMalformedArgs,
			}
		}
		args = m
	}

	state := CallPending
	if len(args) > 0 {
		state = CallComplete
	}
	return ClassifiedCall{
		State: state,
		Name:  f.Name,
		Args:  args,
		ID:    f.ID,
		Index: f.Index,
	}, nil
}
