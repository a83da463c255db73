// Copyright (c) Microsoft. All rights reserved.

package alltools

import (
	"fmt"
	"strings"
)

// Reassemble combines the classified calls of one platform family into a
// single invocation. Every "input" string is concatenated in order into the
// tool input and every "outputs" array into Outputs; the family's display
// field (execution logs, image URLs or page content) is pulled out of the
// outputs for the log.
//
// Any failure is reported as a [ParseError] wrapping [ErrToolInputParse] that
// names the family, so callers can drop just this family.
func Reassemble(family Family, msg *Message, calls []ClassifiedCall, params map[string]any) (*Invocation, error) {
	if !family.IsPlatform() {
		return nil, familyParseError(family, "it is not a platform tool")
	}
	if len(calls) == 0 {
		return nil, familyParseError(family, "no tool calls were observed")
	}

	var (
		input   strings.Builder
		outputs []any
	)
	for i, c := range calls {
		if v, ok := c.Args["input"]; ok {
			s, ok := v.(string)
			if !ok {
				return nil, familyParseError(family, fmt.Sprintf("input of call %d is %T, not a string", i, v))
			}
			input.WriteString(s)
		}
		if v, ok := c.Args["outputs"]; ok && v != nil {
			list, ok := v.([]any)
			if !ok {
				return nil, familyParseError(family, fmt.Sprintf("outputs of call %d is %T, not a list", i, v))
			}
			outputs = append(outputs, list...)
		}
	}

	display, err := displayLog(family, outputs)
	if err != nil {
		return nil, familyParseError(family, err.Error())
	}

	return &Invocation{
		Tool:           family.String(),
		ToolInput:      input.String(),
		Log:            input.String() + "\n" + display + "\n",
		Message:        msg,
		CallID:         callIDOrPlaceholder(calls[0].ID),
		Family:         family,
		Outputs:        outputs,
		PlatformParams: params,
	}, nil
}

// displayLog joins the family's display field across outputs. Outputs that
// are not objects, or do not carry the field, are skipped.
func displayLog(family Family, outputs []any) (string, error) {
	key := family.outputKey()
	var b strings.Builder
	for _, o := range outputs {
		m, ok := o.(map[string]any)
		if !ok {
			continue
		}
		v, ok := m[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("output field %q is %T, not a string", key, v)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func familyParseError(family Family, reason string) error {
	return &ParseError{Tool: family.String(), Message: reason, Err: ErrToolInputParse}
}

// functionInvocation turns a user-function call into an invocation. A lone
// positional argument is unwrapped to a bare value.
func functionInvocation(msg *Message, c ClassifiedCall) Invocation {
	var input any = c.Args
	if v, ok := c.Args[positionalArgKey]; ok {
		input = v
	}

	responded := "\n"
	if msg != nil && msg.Content != "" {
		responded = "responded: " + msg.Content + "\n"
	}

	return Invocation{
		Tool:      c.Name,
		ToolInput: input,
		Log:       fmt.Sprintf("\nInvoking: `%s` with `%s`\n%s\n", c.Name, formatToolInput(input), responded),
		Message:   msg,
		CallID:    callIDOrPlaceholder(c.ID),
		Family:    FamilyFunction,
	}
}
