package registry

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
)

// NumberRange is the parsed operand of the numeric range operator. At least
// one bound is always present.
type NumberRange struct {
	Min *float64
	Max *float64
}

func (r *Registry) registerBuiltins() {
	r.MustRegister(model.KindText, Operator{Name: model.OpContains, Parse: parseNeedle, Eval: evalContains})
	r.MustRegister(model.KindText, Operator{Name: model.OpEquals, Parse: parseText, Eval: evalTextEquals})
	r.MustRegister(model.KindText, Operator{Name: model.OpMatches, Parse: parsePattern, Eval: evalMatches})

	r.MustRegister(model.KindNumber, Operator{Name: model.OpEq, Parse: parseBoundedNumber, Eval: numberCompare(func(v, want float64) bool { return v == want })})
	r.MustRegister(model.KindNumber, Operator{Name: model.OpLt, Parse: parseBoundedNumber, Eval: numberCompare(func(v, want float64) bool { return v < want })})
	r.MustRegister(model.KindNumber, Operator{Name: model.OpGt, Parse: parseBoundedNumber, Eval: numberCompare(func(v, want float64) bool { return v > want })})
	r.MustRegister(model.KindNumber, Operator{Name: model.OpRange, Parse: parseRange, Eval: evalRange})

	r.MustRegister(model.KindBoolean, Operator{Name: model.OpIs, Parse: parseBool, Eval: evalIs})

	r.MustRegister(model.KindChoice, Operator{Name: model.OpEquals, Parse: parseChoice, Eval: evalChoiceEquals})

	r.MustRegister(model.KindMultiChoice, Operator{Name: model.OpAny, Parse: parseChoiceSet, Eval: evalAnyOf})
	r.MustRegister(model.KindMultiChoice, Operator{Name: model.OpAll, Parse: parseChoiceSet, Eval: evalAllOf})
}

// --- text ---

func parseText(raw any, _ model.Field) (Operand, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("registry: expected text operand, got %T", raw)
	}
	return s, nil
}

func parseNeedle(raw any, field model.Field) (Operand, error) {
	op, err := parseText(raw, field)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(op.(string)), nil
}

func parsePattern(raw any, field model.Field) (Operand, error) {
	op, err := parseText(raw, field)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(op.(string))
	if err != nil {
		return nil, fmt.Errorf("registry: invalid pattern %q: %w", op, err)
	}
	return re, nil
}

// Missing reads as the empty string for text operators.
func textValue(v catalog.Value) string {
	s, _ := v.AsString()
	return s
}

func evalContains(v catalog.Value, op Operand) bool {
	return strings.Contains(strings.ToLower(textValue(v)), op.(string))
}

func evalTextEquals(v catalog.Value, op Operand) bool {
	return textValue(v) == op.(string)
}

func evalMatches(v catalog.Value, op Operand) bool {
	return op.(*regexp.Regexp).MatchString(textValue(v))
}

// --- number ---

func parseNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("registry: invalid number %q", v.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("registry: %q is not a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("registry: expected numeric operand, got %T", raw)
	}
}

func checkBounds(f float64, field model.Field) error {
	if field.Min != nil && f < *field.Min {
		return fmt.Errorf("registry: %v is below the minimum %v for field %q", f, *field.Min, field.ID)
	}
	if field.Max != nil && f > *field.Max {
		return fmt.Errorf("registry: %v is above the maximum %v for field %q", f, *field.Max, field.ID)
	}
	return nil
}

func parseBoundedNumber(raw any, field model.Field) (Operand, error) {
	f, err := parseNumber(raw)
	if err != nil {
		return nil, err
	}
	if err := checkBounds(f, field); err != nil {
		return nil, err
	}
	return f, nil
}

func parseRange(raw any, field model.Field) (Operand, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		if nr, isRange := raw.(NumberRange); isRange {
			return parseRangeBounds(nr, field)
		}
		return nil, fmt.Errorf("registry: expected range operand with min and/or max, got %T", raw)
	}
	var nr NumberRange
	if rawMin, has := obj["min"]; has {
		f, err := parseNumber(rawMin)
		if err != nil {
			return nil, err
		}
		nr.Min = &f
	}
	if rawMax, has := obj["max"]; has {
		f, err := parseNumber(rawMax)
		if err != nil {
			return nil, err
		}
		nr.Max = &f
	}
	return parseRangeBounds(nr, field)
}

func parseRangeBounds(nr NumberRange, field model.Field) (Operand, error) {
	if nr.Min == nil && nr.Max == nil {
		return nil, fmt.Errorf("registry: range operand needs min and/or max")
	}
	if nr.Min != nil {
		if err := checkBounds(*nr.Min, field); err != nil {
			return nil, err
		}
	}
	if nr.Max != nil {
		if err := checkBounds(*nr.Max, field); err != nil {
			return nil, err
		}
	}
	return nr, nil
}

// numberCompare lifts a float comparison into an operator that is false for
// Missing and non-numeric values.
func numberCompare(cmp func(v, want float64) bool) func(catalog.Value, Operand) bool {
	return func(v catalog.Value, op Operand) bool {
		f, ok := v.AsNumber()
		if !ok {
			return false
		}
		return cmp(f, op.(float64))
	}
}

func evalRange(v catalog.Value, op Operand) bool {
	f, ok := v.AsNumber()
	if !ok {
		return false
	}
	nr := op.(NumberRange)
	if nr.Min != nil && f < *nr.Min {
		return false
	}
	if nr.Max != nil && f > *nr.Max {
		return false
	}
	return true
}

// --- boolean ---

func parseBool(raw any, _ model.Field) (Operand, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("registry: %q is not a boolean", v)
		}
		return parsed, nil
	default:
		return nil, fmt.Errorf("registry: expected boolean operand, got %T", raw)
	}
}

func evalIs(v catalog.Value, op Operand) bool {
	b, ok := v.AsBool()
	if !ok {
		return false
	}
	return b == op.(bool)
}

// --- choice ---

func parseChoice(raw any, field model.Field) (Operand, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("registry: expected choice operand, got %T", raw)
	}
	if !field.HasValue(s) {
		return nil, fmt.Errorf("registry: %q is not an allowed value for field %q", s, field.ID)
	}
	return s, nil
}

func evalChoiceEquals(v catalog.Value, op Operand) bool {
	s, ok := v.AsString()
	if !ok {
		return false
	}
	return s == op.(string)
}

// --- multi-choice ---

func parseChoiceSet(raw any, field model.Field) (Operand, error) {
	var items []string
	switch v := raw.(type) {
	case string:
		items = []string{v}
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("registry: expected choice set operand, got element %T", elem)
			}
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("registry: expected choice set operand, got %T", raw)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("registry: choice set operand is empty")
	}
	for _, item := range items {
		if !field.HasValue(item) {
			return nil, fmt.Errorf("registry: %q is not an allowed value for field %q", item, field.ID)
		}
	}
	return append([]string(nil), items...), nil
}

// any: operand-set and entry-set intersect.
func evalAnyOf(v catalog.Value, op Operand) bool {
	have, ok := v.AsList()
	if !ok {
		return false
	}
	for _, want := range op.([]string) {
		for _, item := range have {
			if item == want {
				return true
			}
		}
	}
	return false
}

// all: operand-set is a subset of the entry-set.
func evalAllOf(v catalog.Value, op Operand) bool {
	have, ok := v.AsList()
	if !ok {
		return false
	}
	set := make(map[string]struct{}, len(have))
	for _, item := range have {
		set[item] = struct{}{}
	}
	for _, want := range op.([]string) {
		if _, found := set[want]; !found {
			return false
		}
	}
	return true
}
