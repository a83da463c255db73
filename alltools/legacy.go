// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tidwall/gjson"
)

// decodeLegacyToolCalls turns raw vendor tool-call records into fragments.
//
// Function records carry their arguments as a JSON string which must decode;
// a failure aborts the whole message with a [ToolArgumentJSONError]. Platform
// records embed their payload under a key named after their type. Records
// that fail locally are reported in skipped and left out.
func decodeLegacyToolCalls(records []json.RawMessage) (frags []ToolCallFragment, skipped []error, err error) {
	for _, rec := range records {
		if !gjson.ValidBytes(rec) {
			skipped = append(skipped, &ParseError{
				Tool:    "tool_calls",
				Message: "record is not valid JSON",
				Err:     ErrMalformedArgs,
			})
			continue
		}

		typ := gjson.GetBytes(rec, "type").String()
		id := gjson.GetBytes(rec, "id").String()

		if typ == "function" {
			name := gjson.GetBytes(rec, "function.name").String()
			args, err := decodeFunctionArguments(name, gjson.GetBytes(rec, "function.arguments"))
			if err != nil {
				return nil, nil, err
			}
			frags = append(frags, ToolCallFragment{Name: name, Decoded: args, ID: id})
			continue
		}

		family := FamilyOf(typ)
		if !family.IsPlatform() {
			slog.Warn("skipping tool call of unknown type", "type", typ, "id", id)
			continue
		}

		payload := gjson.GetBytes(rec, typ)
		params := map[string]any{}
		if payload.Exists() && payload.Type != gjson.Null {
			if !payload.IsObject() {
				skipped = append(skipped, &ParseError{
					Tool:    typ,
					Message: "the embedded parameters are not an object",
					Err:     ErrMalformedArgs,
				})
				continue
			}
			if err := json.Unmarshal([]byte(payload.Raw), &params); err != nil {
				skipped = append(skipped, &ParseError{Tool: typ, Message: err.Error(), Err: ErrMalformedArgs})
				continue
			}
		}
		frags = append(frags, ToolCallFragment{Name: typ, Decoded: params, ID: id})
	}
	return frags, skipped, nil
}

func decodeFunctionArguments(name string, res gjson.Result) (map[string]any, error) {
	raw := "{}"
	switch {
	case res.Type == gjson.String:
		if s := res.String(); s != "" {
			raw = s
		}
	case res.IsObject():
		raw = res.Raw
	case res.Exists() && res.Type != gjson.Null:
		raw = res.Raw
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, &ToolArgumentJSONError{Function: name, Arguments: raw, Err: err}
	}
	if args == nil {
		return nil, &ToolArgumentJSONError{
			Function:  name,
			Arguments: raw,
			Err:       errors.New("arguments are null"),
		}
	}
	return args, nil
}
