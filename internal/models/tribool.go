package models

import (
	"encoding/json"
	"fmt"
)

// TriBool is a three-valued boolean: true, false, or unknown.
//
// The source of every TriBool is a provider API response; a failed or
// ambiguous read yields Unknown instead of being coerced into false. TriBool
// serialises as the JSON strings "true", "false", and "unknown" to match the
// audit report format.
type TriBool int

const (
	Unknown TriBool = iota
	False
	True
)

// TriFromBool converts a determinate bool to a TriBool.
func TriFromBool(b bool) TriBool {
	if b {
		return True
	}
	return False
}

// TriFromBoolPtr converts an optional bool: nil maps to Unknown.
func TriFromBoolPtr(b *bool) TriBool {
	if b == nil {
		return Unknown
	}
	return TriFromBool(*b)
}

// Known reports whether the value is determinate.
func (t TriBool) Known() bool { return t != Unknown }

// Bool returns the determinate value and whether it is known.
func (t TriBool) Bool() (value, known bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// String returns "true", "false", or "unknown".
func (t TriBool) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the value as one of the strings "true", "false",
// "unknown".
func (t TriBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the strings "true", "false", "unknown" as well as
// bare JSON booleans for compatibility with hand-written fixtures.
func (t *TriBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"true"`, `true`:
		*t = True
	case `"false"`, `false`:
		*t = False
	case `"unknown"`, `null`:
		*t = Unknown
	default:
		return fmt.Errorf("invalid TriBool value: %s", data)
	}
	return nil
}
