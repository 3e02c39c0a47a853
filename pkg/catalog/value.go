package catalog

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the closed variant of entry values the engine evaluates.
type ValueKind int

const (
	ValueMissing ValueKind = iota
	ValueString
	ValueNumber
	ValueBoolean
	ValueStringList
)

func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBoolean:
		return "boolean"
	case ValueStringList:
		return "string-list"
	default:
		return "missing"
	}
}

// Value is the closed variant an entry key decodes to. Keys absent from an
// entry, or present with a shape outside the variant, are Missing, never an
// error. Every operator pattern-matches this variant, which is what keeps
// predicate evaluation total.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
	list []string
}

// Missing is the zero Value.
var Missing = Value{}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: ValueString, str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: ValueNumber, num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: ValueBoolean, b: b} }

// ListValue wraps a list of strings. The slice is copied.
func ListValue(items []string) Value {
	return Value{kind: ValueStringList, list: append([]string(nil), items...)}
}

// ValueFromJSON converts a decoded JSON value into the closed variant. It is
// total: shapes outside the variant (objects, mixed arrays, null) map to
// Missing.
func ValueFromJSON(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Missing
	case string:
		return StringValue(v)
	case bool:
		return BoolValue(v)
	case float64:
		return NumberValue(v)
	case float32:
		return NumberValue(float64(v))
	case int:
		return NumberValue(float64(v))
	case int64:
		return NumberValue(float64(v))
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Missing
		}
		return NumberValue(f)
	case []string:
		return ListValue(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return Missing
			}
			items = append(items, s)
		}
		return Value{kind: ValueStringList, list: items}
	default:
		return Missing
	}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether the value is absent or had an unusable shape.
func (v Value) IsMissing() bool { return v.kind == ValueMissing }

// AsString returns the string payload. Missing reads as the empty string,
// matching the text-operator contract.
func (v Value) AsString() (string, bool) {
	if v.kind != ValueString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != ValueNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != ValueBoolean {
		return false, false
	}
	return v.b, true
}

// AsList returns the string-list payload without copying. Callers must not
// mutate the result.
func (v Value) AsList() ([]string, bool) {
	if v.kind != ValueStringList {
		return nil, false
	}
	return v.list, true
}

// Display renders the value for templates: strings verbatim, numbers with
// trailing zeros trimmed, booleans as true/false, lists comma-joined.
// Missing displays as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBoolean:
		return strconv.FormatBool(v.b)
	case ValueStringList:
		out := ""
		for i, item := range v.list {
			if i > 0 {
				out += ", "
			}
			out += item
		}
		return out
	default:
		return ""
	}
}
