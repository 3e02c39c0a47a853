package query

import (
	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/registry"
)

// Predicate is a boolean test over one entry. Implementations hold no
// cross-entry state, so evaluation over a catalog is order-independent and
// And/Or children may short-circuit in any order without changing the
// resulting match set.
type Predicate interface {
	Match(e catalog.Entry) bool
}

// FieldPredicate tests a single field's value against a parsed operand.
// A predicate built from a malformed operand carries no evaluator and is
// always false, which is how damage from one bad input stays isolated to
// its field.
type FieldPredicate struct {
	FieldID  string
	Operator string

	eval    func(catalog.Value, registry.Operand) bool
	operand registry.Operand
}

// NewFieldPredicate binds an operator's evaluator and parsed operand to a
// field id.
func NewFieldPredicate(fieldID string, op registry.Operator, operand registry.Operand) FieldPredicate {
	return FieldPredicate{FieldID: fieldID, Operator: op.Name, eval: op.Eval, operand: operand}
}

// NeverMatch returns an always-false predicate for a field, used when the
// field's input could not be compiled.
func NeverMatch(fieldID, operator string) FieldPredicate {
	return FieldPredicate{FieldID: fieldID, Operator: operator}
}

func (p FieldPredicate) Match(e catalog.Entry) bool {
	if p.eval == nil {
		return false
	}
	return p.eval(e.Value(p.FieldID), p.operand)
}

// And matches when every child matches. The empty conjunction matches
// everything, which is what makes the no-constraint search return the full
// catalog without compiling per-field always-true nodes.
type And []Predicate

func (ps And) Match(e catalog.Entry) bool {
	for _, p := range ps {
		if !p.Match(e) {
			return false
		}
	}
	return true
}

// Or matches when any child matches. The empty disjunction matches nothing.
type Or []Predicate

func (ps Or) Match(e catalog.Entry) bool {
	for _, p := range ps {
		if p.Match(e) {
			return true
		}
	}
	return false
}

// Not inverts its child.
type Not struct {
	Child Predicate
}

func (p Not) Match(e catalog.Entry) bool {
	return !p.Child.Match(e)
}
