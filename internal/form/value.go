package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// KindText is a free-form string value.
	KindText ValueKind = iota
	// KindBool is a toggle (checkbox) value.
	KindBool
	// KindNumber is a number-like string, kept as typed by the user.
	KindNumber
)

// InputKind describes the control a change event came from.
type InputKind string

// Input kinds understood by HandleChange.
const (
	InputText     InputKind = "text"
	InputNumber   InputKind = "number"
	InputCheckbox InputKind = "checkbox"
)

// Value is a single field value: a string, a boolean or a number-like string.
type Value struct {
	kind ValueKind
	text string
	flag bool
}

// Text returns a string value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool returns a toggle value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Number returns a number-like value. The raw text is preserved so that
// partially typed input ("1.", "") round-trips unchanged.
func Number(s string) Value { return Value{kind: KindNumber, text: s} }

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// String returns the raw text of a text or number value, or "true"/"false"
// for a toggle.
func (v Value) String() string {
	if v.kind == KindBool {
		return strconv.FormatBool(v.flag)
	}
	return v.text
}

// Bool returns the toggle state. Non-toggle values are never checked.
func (v Value) Bool() bool { return v.kind == KindBool && v.flag }

// Float parses the value as a number.
func (v Value) Float() (float64, error) {
	if v.kind == KindBool {
		return 0, fmt.Errorf("toggle value is not numeric")
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("value %q is not a finite number", v.text)
	}
	return f, nil
}

// Interface returns the value as a plain Go value (string or bool).
func (v Value) Interface() any {
	if v.kind == KindBool {
		return v.flag
	}
	return v.text
}

// MarshalJSON encodes toggles as JSON booleans and everything else as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// inputKind is the control kind that produces values of this variant.
func (v Value) inputKind() InputKind {
	switch v.kind {
	case KindBool:
		return InputCheckbox
	case KindNumber:
		return InputNumber
	default:
		return InputText
	}
}

// Values maps field names to their current values.
type Values map[string]Value

// Clone returns an independent copy of vs.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}

// String returns the raw text of a field, or "" when absent.
func (vs Values) String(field string) string {
	return vs[field].String()
}

// Map converts the values into plain Go values keyed by field.
func (vs Values) Map() map[string]any {
	out := make(map[string]any, len(vs))
	for k, v := range vs {
		out[k] = v.Interface()
	}
	return out
}

// RawJSON converts a decoded JSON scalar into the raw string form accepted
// by HandleChange.
func RawJSON(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// parseToggle interprets checkbox input.
func parseToggle(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "off", "no":
		return false, nil
	case "on", "yes":
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid checkbox value %q", raw)
	}
	return b, nil
}
