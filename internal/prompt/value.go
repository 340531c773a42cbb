package prompt

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the closed set of shapes a variable or context item
// can take.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindStructured
)

// Value is one template variable or context item: a string, a number, a
// bool, or an arbitrary JSON-like structure. The zero Value is the empty
// string.
type Value struct {
	kind       Kind
	str        string
	num        float64
	boolean    bool
	structured interface{}
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Structured returns a Value holding an arbitrary JSON-marshalable
// structure, such as a decoded map or slice.
func Structured(v interface{}) Value { return Value{kind: KindStructured, structured: v} }

// FromAny converts a decoded JSON/YAML value to a Value. Scalars map to
// their dedicated kinds, everything else is carried as structured data.
func FromAny(v interface{}) Value {
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f)
		}
		return String(t.String())
	default:
		return Structured(v)
	}
}

// Kind reports which shape the Value holds.
func (v Value) Kind() Kind { return v.kind }

// DisplayText renders the Value for insertion into prompt text: strings
// verbatim, everything else as canonical JSON. Structured payloads that
// cannot be serialized report the underlying error.
func (v Value) DisplayText() (string, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindBool:
		if v.boolean {
			return "true", nil
		}
		return "false", nil
	case KindNumber:
		data, err := json.Marshal(v.num)
		if err != nil {
			return "", fmt.Errorf("serialize number: %w", err)
		}
		return string(data), nil
	default:
		data, err := json.Marshal(v.structured)
		if err != nil {
			return "", fmt.Errorf("serialize structured value: %w", err)
		}
		return string(data), nil
	}
}

// MarshalJSON writes the Value in its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.boolean)
	default:
		return json.Marshal(v.structured)
	}
}

// UnmarshalJSON accepts any JSON value and stores it under the matching
// kind.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// UnmarshalYAML accepts any YAML node, so config files can carry default
// variables of every kind.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw interface{}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}

// MarshalYAML writes the Value in its natural YAML shape.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case KindString:
		return v.str, nil
	case KindNumber:
		return v.num, nil
	case KindBool:
		return v.boolean, nil
	default:
		return v.structured, nil
	}
}
