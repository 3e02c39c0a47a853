package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
)

// Operand is an operator-specific parsed operand. Parse produces it once per
// search action; Eval consumes it per entry.
type Operand any

// Operator couples an operand parser with a total comparison function. Parse
// rejects malformed user input (the only place an operator can fail); Eval is
// total over the value variant, including Missing, so evaluation can never
// raise.
type Operator struct {
	Name  string
	Parse func(raw any, field model.Field) (Operand, error)
	Eval  func(v catalog.Value, op Operand) bool
}

// Registry is the static table mapping a field kind to its allowed operators.
// A registry is built once at load; adding an operator to a kind is the only
// extension point, and operators never cross kinds.
type Registry struct {
	mu    sync.RWMutex
	kinds map[model.Kind]map[string]Operator
}

// New constructs a registry with the built-in operator tables registered.
func New() *Registry {
	r := &Registry{kinds: make(map[model.Kind]map[string]Operator)}
	r.registerBuiltins()
	return r
}

// Register adds an operator to a kind's table. Unknown kinds and duplicate
// names within a kind return an error.
func (r *Registry) Register(kind model.Kind, op Operator) error {
	if !kind.Valid() {
		return fmt.Errorf("registry: unknown kind %q", kind)
	}
	if op.Name == "" {
		return fmt.Errorf("registry: operator name is required")
	}
	if op.Parse == nil || op.Eval == nil {
		return fmt.Errorf("registry: operator %q needs both Parse and Eval", op.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	table := r.kinds[kind]
	if table == nil {
		table = make(map[string]Operator)
		r.kinds[kind] = table
	}
	if _, exists := table[op.Name]; exists {
		return fmt.Errorf("registry: operator %q already registered for kind %q", op.Name, kind)
	}
	table[op.Name] = op
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(kind model.Kind, op Operator) {
	if err := r.Register(kind, op); err != nil {
		panic(err)
	}
}

// Operator looks up an operator in a kind's table.
func (r *Registry) Operator(kind model.Kind, name string) (Operator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.kinds[kind][name]
	return op, ok
}

// Operators returns the sorted operator names allowed for a kind.
func (r *Registry) Operators(kind model.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table := r.kinds[kind]
	if len(table) == 0 {
		return nil
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a kind's table contains the named operator.
func (r *Registry) Has(kind model.Kind, name string) bool {
	_, ok := r.Operator(kind, name)
	return ok
}

// DefaultOperator returns the operator a UI should preselect for a kind.
func (r *Registry) DefaultOperator(kind model.Kind) string {
	switch kind {
	case model.KindText:
		return model.OpContains
	case model.KindNumber:
		return model.OpEq
	case model.KindBoolean:
		return model.OpIs
	case model.KindChoice:
		return model.OpEquals
	case model.KindMultiChoice:
		return model.OpAny
	default:
		return ""
	}
}

// OperatorFor resolves the operator used for a field: the field's configured
// operator when set, otherwise the kind's default.
func (r *Registry) OperatorFor(field model.Field) (Operator, error) {
	name := field.Operator
	if name == "" {
		name = r.DefaultOperator(field.Kind)
	}
	op, ok := r.Operator(field.Kind, name)
	if !ok {
		return Operator{}, fmt.Errorf("registry: operator %q is not allowed for kind %q", name, field.Kind)
	}
	return op, nil
}
