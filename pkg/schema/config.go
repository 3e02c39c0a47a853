package schema

import (
	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/render"
)

// LayoutItem is one slot in the UI geometry: either a single field id or a
// nested group. The geometry mirrors the nesting of the config's fields
// array; the core only validates it, the UI collaborator consumes it.
type LayoutItem struct {
	FieldID string
	Group   Layout
}

// Layout is an ordered row of layout items.
type Layout []LayoutItem

// Config is the validated, load-once schema for a session: field
// definitions, UI geometry, the display template, and the catalog. It is
// immutable after Load returns.
type Config struct {
	Name    string
	Version string

	Fields   []model.Field
	Layout   Layout
	Template render.Node

	// Catalog is set for embedded catalogs and resolved references.
	Catalog *catalog.Catalog
	// CatalogRef preserves the reference string for diagnostics.
	CatalogRef string

	// Warnings collects the non-fatal findings of the load: unknown
	// top-level keys and skipped catalog entries.
	Warnings []string

	fields map[string]model.Field
}

// Field looks up a field definition by id.
func (c *Config) Field(id string) (model.Field, bool) {
	f, ok := c.fields[id]
	return f, ok
}

// FieldIDs returns the field ids in declaration order.
func (c *Config) FieldIDs() []string {
	ids := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		ids = append(ids, f.ID)
	}
	return ids
}
