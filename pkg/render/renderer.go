package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-catsearch/pkg/catalog"
)

// Warning reports a recoverable problem encountered during a render pass:
// a field reference that resolves nowhere, or an unknown formatter. The
// node involved already rendered its fallback text, so warnings are
// advisory and never abort a pass.
type Warning struct {
	FieldID string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("render: %s", w.Message)
}

type renderContext struct {
	out      strings.Builder
	warnings []Warning
	seen     map[string]struct{}
}

// warnf records a warning once per (field, message) occurrence per pass.
func (ctx *renderContext) warnf(fieldID, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	key := fieldID + "\x00" + msg
	if _, dup := ctx.seen[key]; dup {
		return
	}
	if ctx.seen == nil {
		ctx.seen = make(map[string]struct{})
	}
	ctx.seen[key] = struct{}{}
	ctx.warnings = append(ctx.warnings, Warning{FieldID: fieldID, Message: msg})
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSanitizer pipes rendered output through a bluemonday UGC policy, for
// configs whose templates emit user-facing HTML.
func WithSanitizer() Option {
	return func(r *Renderer) {
		r.policy = bluemonday.UGCPolicy()
	}
}

// WithPolicy supplies a custom sanitization policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.policy = policy
	}
}

// Renderer interprets a template tree against one entry at a time. A nil
// root falls back to an indented JSON dump of the whole entry, so a config
// without a template still produces useful display output.
type Renderer struct {
	root   Node
	policy *bluemonday.Policy
}

// New constructs a Renderer for a parsed template tree.
func New(root Node, options ...Option) *Renderer {
	r := &Renderer{root: root}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Render produces the display string for one entry plus any warnings the
// pass surfaced. The pass is pure: it reads only the template and the
// entry, so repeated renders are byte-identical.
func (r *Renderer) Render(e catalog.Entry) (string, []Warning) {
	if r.root == nil {
		return dumpEntry(e), nil
	}

	ctx := &renderContext{}
	r.root.render(e, ctx)

	out := ctx.out.String()
	if r.policy != nil {
		out = r.policy.Sanitize(out)
	}
	return out, ctx.warnings
}

func dumpEntry(e catalog.Entry) string {
	data, err := json.MarshalIndent(e.Raw(), "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}
