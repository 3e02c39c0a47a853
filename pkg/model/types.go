package model

// Kind is the enum of searchable field kinds supported by the schema.
type Kind string

const (
	KindText        Kind = "text"
	KindNumber      Kind = "number"
	KindBoolean     Kind = "boolean"
	KindChoice      Kind = "choice"
	KindMultiChoice Kind = "multi-choice"
)

// Canonical operator names, grouped by the kind they belong to. Operators
// never cross kinds; the registry rejects an operator applied outside its
// kind's table.
const (
	OpContains = "contains"
	OpEquals   = "equals"
	OpMatches  = "matches"

	OpEq    = "eq"
	OpLt    = "lt"
	OpGt    = "gt"
	OpRange = "range"

	OpIs = "is"

	OpAny = "any"
	OpAll = "all"
)

// Kinds returns the supported kinds in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindNumber, KindBoolean, KindChoice, KindMultiChoice}
}

// Valid reports whether k names a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindNumber, KindBoolean, KindChoice, KindMultiChoice:
		return true
	}
	return false
}

// Field models a single searchable dimension declared in the schema config.
// Struct fields are annotated so configs and snapshots serialise directly.
type Field struct {
	ID       string    `json:"id"`
	Label    string    `json:"label,omitempty"`
	Kind     Kind      `json:"kind"`
	Operator string    `json:"operator,omitempty"`
	Widget   string    `json:"widget,omitempty"`
	Default  any       `json:"default,omitempty"`
	Values   []string  `json:"values,omitempty"`
	Min      *float64  `json:"min,omitempty"`
	Max      *float64  `json:"max,omitempty"`
	Listed   []float64 `json:"listed,omitempty"`
}

// DisplayLabel falls back to the field id when no label is configured.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// HasValue reports whether v is one of the field's allowed values. Fields
// without a configured value set accept anything.
func (f Field) HasValue(v string) bool {
	if len(f.Values) == 0 {
		return true
	}
	for _, allowed := range f.Values {
		if allowed == v {
			return true
		}
	}
	return false
}
