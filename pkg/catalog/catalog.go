package catalog

import (
	"fmt"
	"strings"
)

// Entry is one record in the catalog: an arbitrary decoded JSON object.
// Typed access goes through Value, which resolves lazily so a catalog can
// hold heterogeneous records without up-front validation.
type Entry struct {
	raw map[string]any
}

// NewEntry wraps a decoded JSON object. A nil map yields an entry whose
// every lookup is Missing.
func NewEntry(raw map[string]any) Entry {
	return Entry{raw: raw}
}

// Raw exposes the underlying object for display fallbacks. Callers must
// treat the result as read-only.
func (e Entry) Raw() map[string]any { return e.raw }

// Lookup resolves a key to its raw JSON value. Dotted keys traverse nested
// objects; an exact dotted key on the top level wins over traversal.
func (e Entry) Lookup(key string) (any, bool) {
	if len(e.raw) == 0 || key == "" {
		return nil, false
	}
	if v, ok := e.raw[key]; ok {
		return v, true
	}
	parts := strings.Split(key, ".")
	if len(parts) == 1 {
		return nil, false
	}
	var current any = e.raw
	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		next, ok := obj[part]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Value resolves a key to the closed variant. Absent keys and unusable
// shapes both read as Missing.
func (e Entry) Value(key string) Value {
	raw, ok := e.Lookup(key)
	if !ok {
		return Missing
	}
	return ValueFromJSON(raw)
}

// Catalog is the immutable ordered sequence of entries for a session.
type Catalog struct {
	entries []Entry
}

// New builds a catalog from decoded entries, preserving order.
func New(entries []Entry) *Catalog {
	return &Catalog{entries: append([]Entry(nil), entries...)}
}

// FromJSON builds a catalog from a decoded JSON array. Elements that are
// not objects are skipped and reported by index in the returned warnings,
// mirroring how the loader treats malformed records as advisory rather
// than fatal.
func FromJSON(raw []any) (*Catalog, []string) {
	entries := make([]Entry, 0, len(raw))
	var warnings []string
	for i, elem := range raw {
		obj, ok := elem.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("catalog: entry %d is not an object, skipped", i))
			continue
		}
		entries = append(entries, NewEntry(obj))
	}
	return &Catalog{entries: entries}, warnings
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entry returns the entry at index i in catalog order.
func (c *Catalog) Entry(i int) Entry { return c.entries[i] }

// Entries returns a copy of the entry slice in catalog order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	return append([]Entry(nil), c.entries...)
}
