package query

import (
	"fmt"
)

// ParseSpec compiles a declarative predicate from decoded config JSON.
// Supported forms:
//
//	{"field": "price", "op": "range", "operand": {"min": 20}}
//	{"and": [spec, ...]}
//	{"or": [spec, ...]}
//	{"not": spec}
//
// Unlike Build, ParseSpec is strict: dangling field ids, disallowed
// operators, and malformed operands are config-author mistakes and fail
// the load.
func (b *Builder) ParseSpec(raw any) (Predicate, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("query: predicate spec must be an object, got %T", raw)
	}

	if children, has := obj["and"]; has {
		preds, err := b.parseSpecList(children, "and")
		if err != nil {
			return nil, err
		}
		return And(preds), nil
	}
	if children, has := obj["or"]; has {
		preds, err := b.parseSpecList(children, "or")
		if err != nil {
			return nil, err
		}
		return Or(preds), nil
	}
	if child, has := obj["not"]; has {
		inner, err := b.ParseSpec(child)
		if err != nil {
			return nil, err
		}
		return Not{Child: inner}, nil
	}

	rawID, has := obj["field"]
	if !has {
		return nil, fmt.Errorf("query: predicate spec needs one of field, and, or, not")
	}
	id, ok := rawID.(string)
	if !ok {
		return nil, fmt.Errorf("query: predicate field must be a string, got %T", rawID)
	}
	field, known := b.fields[id]
	if !known {
		return nil, fmt.Errorf("query: predicate references unknown field %q", id)
	}

	opName := field.Operator
	if rawOp, has := obj["op"]; has {
		opName, ok = rawOp.(string)
		if !ok {
			return nil, fmt.Errorf("query: predicate op must be a string, got %T", rawOp)
		}
	}
	if opName == "" {
		opName = b.registry.DefaultOperator(field.Kind)
	}
	op, allowed := b.registry.Operator(field.Kind, opName)
	if !allowed {
		return nil, fmt.Errorf("query: operator %q is not allowed for field %q of kind %q", opName, id, field.Kind)
	}

	operand, err := op.Parse(obj["operand"], field)
	if err != nil {
		return nil, fmt.Errorf("query: predicate on field %q: %w", id, err)
	}
	return NewFieldPredicate(id, op, operand), nil
}

func (b *Builder) parseSpecList(raw any, key string) ([]Predicate, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("query: %q expects an array of predicate specs, got %T", key, raw)
	}
	preds := make([]Predicate, 0, len(list))
	for i, elem := range list {
		p, err := b.ParseSpec(elem)
		if err != nil {
			return nil, fmt.Errorf("query: %s[%d]: %w", key, i, err)
		}
		preds = append(preds, p)
	}
	return preds, nil
}
