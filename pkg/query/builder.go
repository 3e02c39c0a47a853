package query

import (
	"fmt"

	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/registry"
)

// Input carries one field's user-entered constraint. Operator optionally
// overrides the field's configured operator; a zero Operator resolves
// through the field definition and the kind default.
type Input struct {
	Operator string
	Operand  any
}

// State maps field ids to their current inputs. Absent fields contribute
// no constraint.
type State map[string]Input

// Values builds a State from plain operand values, keeping call sites terse
// when no operator overrides are involved.
func Values(operands map[string]any) State {
	state := make(State, len(operands))
	for id, operand := range operands {
		state[id] = Input{Operand: operand}
	}
	return state
}

// FieldInputError reports one field whose input could not be compiled. It
// is advisory: the field's predicate is forced false and the rest of the
// search proceeds.
type FieldInputError struct {
	FieldID  string
	Operator string
	Err      error
}

func (e *FieldInputError) Error() string {
	return fmt.Sprintf("query: field %q: %v", e.FieldID, e.Err)
}

func (e *FieldInputError) Unwrap() error { return e.Err }

// Builder compiles field-input state into a single conjunction, using the
// registry for operator validity. Builders are cheap and hold only the
// load-once schema tables.
type Builder struct {
	order    []string
	fields   map[string]model.Field
	registry *registry.Registry
}

// NewBuilder indexes the schema's fields for compilation. The field slice
// order fixes the order of compiled conjuncts.
func NewBuilder(fields []model.Field, reg *registry.Registry) *Builder {
	index := make(map[string]model.Field, len(fields))
	order := make([]string, 0, len(fields))
	for _, f := range fields {
		index[f.ID] = f
		order = append(order, f.ID)
	}
	return &Builder{order: order, fields: index, registry: reg}
}

// Build compiles the state into the conjunction of one field predicate per
// constrained field. It never aborts: a malformed operand or disallowed
// operator yields an always-false predicate for that field plus an
// advisory, and unknown field ids are reported and skipped. Empty operands
// (empty string, empty list, nil) count as unconstrained.
func (b *Builder) Build(state State) (Predicate, []FieldInputError) {
	var (
		conjuncts And
		issues    []FieldInputError
	)

	for _, id := range b.order {
		input, constrained := state[id]
		if !constrained || emptyOperand(input.Operand) {
			continue
		}
		field := b.fields[id]

		opName := input.Operator
		if opName == "" {
			opName = field.Operator
		}
		if opName == "" {
			opName = b.registry.DefaultOperator(field.Kind)
		}

		op, ok := b.registry.Operator(field.Kind, opName)
		if !ok {
			issues = append(issues, FieldInputError{
				FieldID:  id,
				Operator: opName,
				Err:      fmt.Errorf("operator %q is not allowed for kind %q", opName, field.Kind),
			})
			conjuncts = append(conjuncts, NeverMatch(id, opName))
			continue
		}

		operand, err := op.Parse(input.Operand, field)
		if err != nil {
			issues = append(issues, FieldInputError{FieldID: id, Operator: opName, Err: err})
			conjuncts = append(conjuncts, NeverMatch(id, opName))
			continue
		}

		conjuncts = append(conjuncts, NewFieldPredicate(id, op, operand))
	}

	for id := range state {
		if _, known := b.fields[id]; !known {
			issues = append(issues, FieldInputError{
				FieldID: id,
				Err:     fmt.Errorf("field is not declared in the schema"),
			})
		}
	}

	return conjuncts, issues
}

func emptyOperand(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	default:
		return false
	}
}
