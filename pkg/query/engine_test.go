package query

import (
	"testing"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/registry"
)

func newTestEngine() *Engine {
	return NewEngine(testFields(), registry.New())
}

func TestSelectNilPredicateReturnsCatalogOrder(t *testing.T) {
	e := newTestEngine()
	cat := testCatalog()

	got := e.Select(cat, nil)
	if !equalInts(got, []int{0, 1, 2}) {
		t.Fatalf("nil predicate must select the full catalog in order, got %v", got)
	}
}

func TestSearchPriceRangeScenario(t *testing.T) {
	cat, _ := catalog.FromJSON([]any{
		map[string]any{"price": 10.0},
		map[string]any{"price": 25.0},
		map[string]any{},
	})
	e := newTestEngine()
	b := newTestBuilder()

	p, issues := b.Build(Values(map[string]any{"price": map[string]any{"min": 20.0}}))
	if len(issues) != 0 {
		t.Fatalf("unexpected issues %v", issues)
	}
	entries, err := e.Search(cat, p, nil)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(entries))
	}
	if v, _ := entries[0].Value("price").AsNumber(); v != 25 {
		t.Fatalf("expected the price=25 entry, got %v", entries[0].Raw())
	}
}

func TestOrderStableWithTiesAndMissing(t *testing.T) {
	cat, _ := catalog.FromJSON([]any{
		map[string]any{"name": "c", "price": 5.0},
		map[string]any{"name": "a", "price": 5.0},
		map[string]any{"name": "missing"},
		map[string]any{"name": "b", "price": 2.0},
	})
	e := newTestEngine()
	all := e.Select(cat, nil)

	asc, err := e.Order(cat, all, &Sort{FieldID: "price"})
	if err != nil {
		t.Fatalf("order asc: %v", err)
	}
	// Ties at price=5 keep catalog order; the missing entry goes last.
	if !equalInts(asc, []int{3, 0, 1, 2}) {
		t.Fatalf("ascending order wrong: %v", asc)
	}

	desc, err := e.Order(cat, all, &Sort{FieldID: "price", Descending: true})
	if err != nil {
		t.Fatalf("order desc: %v", err)
	}
	// Missing orders last in both directions.
	if !equalInts(desc, []int{0, 1, 3, 2}) {
		t.Fatalf("descending order wrong: %v", desc)
	}
}

func TestOrderTextIsCaseInsensitive(t *testing.T) {
	cat, _ := catalog.FromJSON([]any{
		map[string]any{"name": "Zebra"},
		map[string]any{"name": "apple"},
		map[string]any{"name": "Mango"},
	})
	e := newTestEngine()

	got, err := e.Order(cat, e.Select(cat, nil), &Sort{FieldID: "name"})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if !equalInts(got, []int{1, 2, 0}) {
		t.Fatalf("text sort must fold case: %v", got)
	}
}

func TestOrderBooleanFalseBeforeTrue(t *testing.T) {
	cat, _ := catalog.FromJSON([]any{
		map[string]any{"legendary": true},
		map[string]any{"legendary": false},
	})
	e := newTestEngine()

	got, err := e.Order(cat, e.Select(cat, nil), &Sort{FieldID: "legendary"})
	if err != nil {
		t.Fatalf("order: %v", err)
	}
	if !equalInts(got, []int{1, 0}) {
		t.Fatalf("false must order before true: %v", got)
	}
}

func TestOrderUnknownSortField(t *testing.T) {
	e := newTestEngine()
	cat := testCatalog()

	if _, err := e.Order(cat, e.Select(cat, nil), &Sort{FieldID: "banana"}); err == nil {
		t.Fatal("expected an error for an undeclared sort field")
	}
}

func TestSearchDoesNotMutateCatalogOrder(t *testing.T) {
	e := newTestEngine()
	cat := testCatalog()

	if _, err := e.Search(cat, nil, &Sort{FieldID: "price", Descending: true}); err != nil {
		t.Fatalf("search: %v", err)
	}
	// A second unsorted pass still sees catalog order.
	if got := e.Select(cat, nil); !equalInts(got, []int{0, 1, 2}) {
		t.Fatalf("sorting must not reorder the catalog, got %v", got)
	}
}
