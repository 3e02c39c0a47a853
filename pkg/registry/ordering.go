package registry

import (
	"strings"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
)

// SortKey is the ordering key a kind extracts from a value for stable
// sorting. Absent values carry Present=false and always order after
// present ones, whichever direction the sort runs in.
type SortKey struct {
	Present bool
	numeric bool
	num     float64
	str     string
}

// SortKey extracts the default ordering key for a kind. Number fields order
// numerically, boolean fields order false before true, everything else
// orders case-insensitively on its display string.
func (r *Registry) SortKey(kind model.Kind, v catalog.Value) SortKey {
	if v.IsMissing() {
		return SortKey{}
	}
	switch kind {
	case model.KindNumber:
		f, ok := v.AsNumber()
		if !ok {
			return SortKey{}
		}
		return SortKey{Present: true, numeric: true, num: f}
	case model.KindBoolean:
		b, ok := v.AsBool()
		if !ok {
			return SortKey{}
		}
		n := 0.0
		if b {
			n = 1.0
		}
		return SortKey{Present: true, numeric: true, num: n}
	default:
		return SortKey{Present: true, str: strings.ToLower(v.Display())}
	}
}

// Less orders a before b. Callers must have checked Present on both.
func (k SortKey) Less(other SortKey) bool {
	if k.numeric {
		return k.num < other.num
	}
	return k.str < other.str
}
