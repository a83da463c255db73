// Copyright (c) Microsoft. All rights reserved.

package alltools

// Family identifies which kind of tool a call belongs to. Platform families
// run on the vendor side; every other name is a user function.
type Family int

const (
	FamilyFunction Family = iota
	FamilyCodeInterpreter
	FamilyDrawingTool
	FamilyWebBrowser
)

// platformFamilies lists the platform families in routing order.
var platformFamilies = [...]Family{
	FamilyCodeInterpreter,
	FamilyDrawingTool,
	FamilyWebBrowser,
}

// PlatformFamilies returns the platform-tool families in routing order.
func PlatformFamilies() []Family {
	out := make([]Family, len(platformFamilies))
	copy(out, platformFamilies[:])
	return out
}

// String returns the wire identifier of the family.
func (f Family) String() string {
	switch f {
	case FamilyCodeInterpreter:
		return "code_interpreter"
	case FamilyDrawingTool:
		return "drawing_tool"
	case FamilyWebBrowser:
		return "web_browser"
	default:
		return "function"
	}
}

// IsPlatform reports whether the family is executed by the vendor.
func (f Family) IsPlatform() bool {
	return f != FamilyFunction
}

// outputKey is the key of the per-output field shown in the action log.
func (f Family) outputKey() string {
	switch f {
	case FamilyCodeInterpreter:
		return "logs"
	case FamilyDrawingTool:
		return "image"
	case FamilyWebBrowser:
		return "content"
	default:
		return ""
	}
}

// FamilyOf maps a tool name or tool-call type to its family. Unknown names
// are user functions.
func FamilyOf(name string) Family {
	for _, f := range platformFamilies {
		if f.String() == name {
			return f
		}
	}
	return FamilyFunction
}
