package value

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Kind identifies which member of the union a Raw holds.
type Kind uint8

const (
	// KindInvalid is the zero Raw. It is never encoded.
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Raw is a scalar setting value.
type Raw struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

// Bool returns a boolean Raw.
func Bool(b bool) Raw {
	return Raw{kind: KindBool, b: b}
}

// Int returns an integer Raw.
func Int(i int64) Raw {
	return Raw{kind: KindInt, i: i}
}

// String returns a string Raw.
func String(s string) Raw {
	return Raw{kind: KindString, s: s}
}

// Kind returns the kind of the value.
func (r Raw) Kind() Kind {
	return r.kind
}

// IsValid reports whether r holds one of the three supported kinds.
func (r Raw) IsValid() bool {
	return r.kind != KindInvalid
}

// AsBool returns the boolean and true if r is a boolean.
func (r Raw) AsBool() (bool, bool) {
	return r.b, r.kind == KindBool
}

// AsInt returns the integer and true if r is an integer.
func (r Raw) AsInt() (int64, bool) {
	return r.i, r.kind == KindInt
}

// AsString returns the string and true if r is a string.
func (r Raw) AsString() (string, bool) {
	return r.s, r.kind == KindString
}

// Text returns the textual form of the value. Invalid values render as "".
func (r Raw) Text() string {
	switch r.kind {
	case KindBool:
		return strconv.FormatBool(r.b)
	case KindInt:
		return strconv.FormatInt(r.i, 10)
	case KindString:
		return r.s
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (r Raw) String() string {
	if r.kind == KindString {
		return strconv.Quote(r.s)
	}
	if r.kind == KindInvalid {
		return "<invalid>"
	}
	return r.Text()
}

// Native returns the Go value used by document encoders. The second result is
// false for the zero Raw.
func (r Raw) Native() (any, bool) {
	switch r.kind {
	case KindBool:
		return r.b, true
	case KindInt:
		return r.i, true
	case KindString:
		return r.s, true
	default:
		return nil, false
	}
}

// FromNative converts a decoded document value back into a Raw. Values of any
// other type (reals, dates, data, arrays, dictionaries) are rejected.
func FromNative(v any) (Raw, bool) {
	switch t := v.(type) {
	case bool:
		return Bool(t), true
	case string:
		return String(t), true
	case int:
		return Int(int64(t)), true
	case int8:
		return Int(int64(t)), true
	case int16:
		return Int(int64(t)), true
	case int32:
		return Int(int64(t)), true
	case int64:
		return Int(t), true
	case uint:
		return fromUnsigned(uint64(t))
	case uint8:
		return Int(int64(t)), true
	case uint16:
		return Int(int64(t)), true
	case uint32:
		return Int(int64(t)), true
	case uint64:
		return fromUnsigned(t)
	default:
		return Raw{}, false
	}
}

func fromUnsigned(u uint64) (Raw, bool) {
	if u > math.MaxInt64 {
		return Raw{}, false
	}
	return Int(int64(u)), true
}

// Parse interprets command-line input: "true"/"false" become booleans, base-10
// integers become integers, everything else is kept as a string.
func Parse(s string) Raw {
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	return String(s)
}

// MarshalYAML encodes the value as a plain YAML scalar.
func (r Raw) MarshalYAML() (any, error) {
	v, ok := r.Native()
	if !ok {
		return nil, fmt.Errorf("cannot encode invalid value")
	}
	return v, nil
}

// UnmarshalYAML decodes a YAML scalar using its resolved tag.
func (r *Raw) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: setting value must be a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*r = Bool(b)
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		*r = Int(i)
	case "!!null":
		*r = String("")
	default:
		*r = String(node.Value)
	}
	return nil
}

// MarshalJSON encodes the value as a JSON scalar.
func (r Raw) MarshalJSON() ([]byte, error) {
	v, ok := r.Native()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
