package query

import (
	"testing"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/registry"
)

func testFields() []model.Field {
	return []model.Field{
		{ID: "name", Kind: model.KindText},
		{ID: "price", Kind: model.KindNumber, Operator: model.OpRange},
		{ID: "legendary", Kind: model.KindBoolean},
		{ID: "size", Kind: model.KindChoice, Values: []string{"small", "medium", "large"}},
		{ID: "genres", Kind: model.KindMultiChoice, Values: []string{"action", "drama", "comedy"}},
	}
}

func testCatalog() *catalog.Catalog {
	cat, _ := catalog.FromJSON([]any{
		map[string]any{"name": "goblin", "price": 10.0, "size": "small", "genres": []any{"action", "drama"}},
		map[string]any{"name": "dragon", "price": 25.0, "legendary": true, "size": "large"},
		map[string]any{"name": "mimic"},
	})
	return cat
}

func fieldPred(t *testing.T, fieldID, opName string, raw any) Predicate {
	t.Helper()
	reg := registry.New()
	var field model.Field
	for _, f := range testFields() {
		if f.ID == fieldID {
			field = f
		}
	}
	op, ok := reg.Operator(field.Kind, opName)
	if !ok {
		t.Fatalf("operator %q missing for %q", opName, field.Kind)
	}
	operand, err := op.Parse(raw, field)
	if err != nil {
		t.Fatalf("parse operand: %v", err)
	}
	return NewFieldPredicate(fieldID, op, operand)
}

func matchSet(c *catalog.Catalog, p Predicate) []int {
	var out []int
	for i := 0; i < c.Len(); i++ {
		if p.Match(c.Entry(i)) {
			out = append(out, i)
		}
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAndOrPermutationInvariance(t *testing.T) {
	cat := testCatalog()
	a := fieldPred(t, "name", model.OpContains, "o")
	b := fieldPred(t, "price", model.OpRange, map[string]any{"min": 5.0})
	c := fieldPred(t, "size", model.OpEquals, "small")

	permutations := [][]Predicate{
		{a, b, c}, {a, c, b}, {b, a, c}, {b, c, a}, {c, a, b}, {c, b, a},
	}

	andWant := matchSet(cat, And(permutations[0]))
	orWant := matchSet(cat, Or(permutations[0]))
	for _, perm := range permutations[1:] {
		if got := matchSet(cat, And(perm)); !equalInts(got, andWant) {
			t.Fatalf("And is not permutation-invariant: %v vs %v", got, andWant)
		}
		if got := matchSet(cat, Or(perm)); !equalInts(got, orWant) {
			t.Fatalf("Or is not permutation-invariant: %v vs %v", got, orWant)
		}
	}
}

func TestNotInverts(t *testing.T) {
	cat := testCatalog()
	p := fieldPred(t, "legendary", model.OpIs, true)

	direct := matchSet(cat, p)
	inverted := matchSet(cat, Not{Child: p})
	if len(direct)+len(inverted) != cat.Len() {
		t.Fatalf("Not must partition the catalog: %v and %v", direct, inverted)
	}
}

func TestEmptyConjunctionMatchesAll(t *testing.T) {
	cat := testCatalog()
	if got := matchSet(cat, And(nil)); len(got) != cat.Len() {
		t.Fatalf("empty conjunction must match every entry, got %v", got)
	}
	if got := matchSet(cat, Or(nil)); got != nil {
		t.Fatalf("empty disjunction must match nothing, got %v", got)
	}
}

func TestNeverMatch(t *testing.T) {
	cat := testCatalog()
	if got := matchSet(cat, NeverMatch("price", model.OpRange)); got != nil {
		t.Fatalf("NeverMatch must match nothing, got %v", got)
	}
}
