package query

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/registry"
)

// Sort directs the engine to order matches on a field's default ordering
// key instead of catalog order.
type Sort struct {
	FieldID    string
	Descending bool
}

// Engine evaluates a predicate against a catalog. Evaluation is a linear
// scan per search action with no cross-entry state; the design deliberately
// forgoes indexing, which is the right trade at desktop-scale catalog
// sizes.
type Engine struct {
	fields   map[string]model.Field
	registry *registry.Registry
}

// NewEngine indexes the schema's fields for sort-key extraction.
func NewEngine(fields []model.Field, reg *registry.Registry) *Engine {
	index := make(map[string]model.Field, len(fields))
	for _, f := range fields {
		index[f.ID] = f
	}
	return &Engine{fields: index, registry: reg}
}

// Select returns the catalog positions of entries matching p, in catalog
// order. A nil predicate matches everything.
func (e *Engine) Select(c *catalog.Catalog, p Predicate) []int {
	if p == nil {
		p = And(nil)
	}
	var matched []int
	for i := 0; i < c.Len(); i++ {
		if p.Match(c.Entry(i)) {
			matched = append(matched, i)
		}
	}
	return matched
}

// Order stable-sorts matched catalog positions on the sort field's ordering
// key. Ties preserve catalog order; entries missing the sort field order
// last in either direction. A nil sort returns the positions unchanged.
func (e *Engine) Order(c *catalog.Catalog, matched []int, s *Sort) ([]int, error) {
	if s == nil || len(matched) < 2 {
		return matched, nil
	}
	field, ok := e.fields[s.FieldID]
	if !ok {
		return nil, fmt.Errorf("query: sort field %q is not declared in the schema", s.FieldID)
	}

	keys := make(map[int]registry.SortKey, len(matched))
	for _, idx := range matched {
		keys[idx] = e.registry.SortKey(field.Kind, c.Entry(idx).Value(field.ID))
	}

	ordered := append([]int(nil), matched...)
	sort.SliceStable(ordered, func(a, b int) bool {
		ka, kb := keys[ordered[a]], keys[ordered[b]]
		if ka.Present != kb.Present {
			return ka.Present
		}
		if !ka.Present {
			return false
		}
		if s.Descending {
			return kb.Less(ka)
		}
		return ka.Less(kb)
	})
	return ordered, nil
}

// Search composes Select and Order into the filtered, ordered entry list.
func (e *Engine) Search(c *catalog.Catalog, p Predicate, s *Sort) ([]catalog.Entry, error) {
	matched, err := e.Order(c, e.Select(c, p), s)
	if err != nil {
		return nil, err
	}
	entries := make([]catalog.Entry, len(matched))
	for i, idx := range matched {
		entries[i] = c.Entry(idx)
	}
	return entries, nil
}
