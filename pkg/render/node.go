package render

import (
	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/query"
)

// Node is one node of the display template tree. Trees are parsed once at
// config load and rendered per matched entry; rendering is a pure pass, so
// two renders of the same (template, entry) pair are byte-identical.
type Node interface {
	render(e catalog.Entry, ctx *renderContext)
}

// Literal copies its text verbatim.
type Literal struct {
	Text string
}

func (n Literal) render(_ catalog.Entry, ctx *renderContext) {
	ctx.out.WriteString(n.Text)
}

// FieldRef substitutes the entry's value for a key, through an optional
// formatter. Missing values emit the configured default text; rendering
// never fails on an absent key.
type FieldRef struct {
	FieldID   string
	Formatter string
	Default   string

	formatter Formatter
	declared  bool
}

func (n FieldRef) render(e catalog.Entry, ctx *renderContext) {
	v := e.Value(n.FieldID)
	if v.IsMissing() {
		if !n.declared {
			if _, present := e.Lookup(n.FieldID); !present {
				ctx.warnf(n.FieldID, "field %q is neither declared nor present in the entry", n.FieldID)
			}
		}
		ctx.out.WriteString(n.Default)
		return
	}
	if n.Formatter != "" && n.formatter == nil {
		ctx.warnf(n.FieldID, "unknown formatter %q", n.Formatter)
		ctx.out.WriteString(v.Display())
		return
	}
	if n.formatter != nil {
		ctx.out.WriteString(n.formatter(v))
		return
	}
	ctx.out.WriteString(v.Display())
}

// Conditional evaluates an embedded predicate against the same entry being
// rendered and renders exactly one branch. Branches may be nil.
type Conditional struct {
	When query.Predicate
	Then Node
	Else Node
}

func (n Conditional) render(e catalog.Entry, ctx *renderContext) {
	branch := n.Else
	if n.When != nil && n.When.Match(e) {
		branch = n.Then
	}
	if branch != nil {
		branch.render(e, ctx)
	}
}

// Sequence renders its children in order.
type Sequence []Node

func (n Sequence) render(e catalog.Entry, ctx *renderContext) {
	for _, child := range n {
		child.render(e, ctx)
	}
}

// ForEach renders its body once per element of a list-valued key, joined by
// the separator. Object elements become the entry the body renders against;
// scalar elements are exposed to the body under the "." ref. A missing or
// non-list value renders the default text.
type ForEach struct {
	FieldID   string
	Body      Node
	Separator string
	Default   string
}

// ElementRef is the key a ForEach body uses to reference a scalar element.
const ElementRef = "."

func (n ForEach) render(e catalog.Entry, ctx *renderContext) {
	raw, ok := e.Lookup(n.FieldID)
	if !ok {
		ctx.out.WriteString(n.Default)
		return
	}
	list, ok := raw.([]any)
	if !ok {
		if strs, isStrs := raw.([]string); isStrs {
			list = make([]any, len(strs))
			for i, s := range strs {
				list[i] = s
			}
		} else {
			ctx.warnf(n.FieldID, "foreach over non-list value for %q", n.FieldID)
			ctx.out.WriteString(n.Default)
			return
		}
	}
	if len(list) == 0 {
		ctx.out.WriteString(n.Default)
		return
	}
	for i, elem := range list {
		if i > 0 {
			ctx.out.WriteString(n.Separator)
		}
		obj, isObj := elem.(map[string]any)
		if !isObj {
			obj = map[string]any{ElementRef: elem}
		}
		n.Body.render(catalog.NewEntry(obj), ctx)
	}
}

// Switch dispatches on a key's display value to one of its cases, falling
// back to the required default for unmatched or Missing values.
type Switch struct {
	FieldID string
	Cases   map[string]Node
	Default Node
}

func (n Switch) render(e catalog.Entry, ctx *renderContext) {
	v := e.Value(n.FieldID)
	if !v.IsMissing() {
		if node, ok := n.Cases[v.Display()]; ok {
			node.render(e, ctx)
			return
		}
	}
	if n.Default != nil {
		n.Default.render(e, ctx)
	}
}
