// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema builds the JSON Schema of a tool's argument struct.
//
// Field names follow json tags; `jsonschema` tags add descriptions and
// enums. Fields without omitempty are required.
func GenerateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	s := reflector.Reflect(zero)

	params := map[string]any{
		"type":       "object",
		"properties": s.Properties,
	}
	if len(s.Required) > 0 {
		params["required"] = s.Required
	}
	b, err := json.Marshal(params)
	if err != nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return b
}

// textSchema is the schema of a tool that takes one free-form string.
var textSchema = json.RawMessage(`{"type":"object","properties":{"` + positionalArgKey + `":{"type":"string"}},"required":["` + positionalArgKey + `"]}`)
