package spec

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies the scalar type of a Value. The kind of a state
// variable is fixed at first declaration; a later value of a different
// kind is a merge conflict, never a silent overwrite.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindString
)

// String returns the kind name used in conflict reports.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a typed scalar default for a state or flow variable.
// Numbers remember whether they were declared as integers so the
// rendered literal matches the recorded form (25 vs 25.0).
type Value struct {
	Kind Kind
	Num  float64
	Int  bool // Num was declared without a fractional part
	Bool bool
	Str  string
}

// Number returns a numeric Value, preserving integer-ness.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n, Int: n == float64(int64(n))}
}

// Float returns a numeric Value that always renders with a decimal point.
func Float(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// ParseScalar interprets a raw token as the most specific scalar kind:
// number, then bool, then string.
func ParseScalar(raw string) Value {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		v := Value{Kind: KindNumber, Num: n}
		v.Int = !strings.ContainsAny(raw, ".eE")
		return v
	}
	switch strings.ToLower(raw) {
	case "true", "yes", "on":
		return Value{Kind: KindBool, Bool: true}
	case "false", "no", "off":
		return Value{Kind: KindBool, Bool: false}
	}
	return Value{Kind: KindString, Str: strings.Trim(raw, `"'`)}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	default:
		return v.Str == o.Str
	}
}

// String returns the value as it appears in acknowledgments and
// conflict reports.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return v.formatNum()
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// PyLiteral renders the value using Python literal syntax matching the
// recorded kind. Strings are always quoted and escaped.
func (v Value) PyLiteral() string {
	switch v.Kind {
	case KindNumber:
		return v.formatNum()
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	default:
		return `"` + EscapePyString(v.Str) + `"`
	}
}

func (v Value) formatNum() string {
	if v.Int {
		return strconv.FormatInt(int64(v.Num), 10)
	}
	s := strconv.FormatFloat(v.Num, 'g', -1, 64)
	// A float literal must carry a decimal point or exponent.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// MarshalJSON emits the native scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return []byte(v.formatNum()), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.Bool)), nil
	default:
		return []byte(strconv.Quote(v.Str)), nil
	}
}

// UnmarshalJSON accepts any JSON scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) > 0 && s[0] == '"' {
		str, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid string value %s: %w", s, err)
		}
		*v = StringValue(str)
		return nil
	}
	switch s {
	case "true":
		*v = BoolValue(true)
		return nil
	case "false":
		*v = BoolValue(false)
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("unsupported scalar value %s", s)
	}
	val := Value{Kind: KindNumber, Num: n}
	val.Int = !strings.ContainsAny(s, ".eE")
	*v = val
	return nil
}

// UnmarshalYAML accepts either a bare fault name or a {name, rate}
// mapping, so spec files can list simple faults without ceremony.
func (f *FaultMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = FaultMode{Name: node.Value}
		return nil
	}
	type plain FaultMode
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*f = FaultMode(p)
	return nil
}

// MarshalYAML emits the native scalar.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case KindNumber:
		if v.Int {
			return int64(v.Num), nil
		}
		return v.Num, nil
	case KindBool:
		return v.Bool, nil
	default:
		return v.Str, nil
	}
}

// UnmarshalYAML decodes a YAML scalar node, preserving the declared kind.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: default value must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!int":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid integer %q", node.Line, node.Value)
		}
		*v = Value{Kind: KindNumber, Num: n, Int: true}
	case "!!float":
		n, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid float %q", node.Line, node.Value)
		}
		*v = Value{Kind: KindNumber, Num: n}
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid bool %q", node.Line, node.Value)
		}
		*v = BoolValue(b)
	case "!!str":
		*v = StringValue(node.Value)
	default:
		return fmt.Errorf("line %d: unsupported scalar tag %s", node.Line, node.Tag)
	}
	return nil
}
