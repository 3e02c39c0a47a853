// Package page wraps per-entry display output in a results page rendered
// through a pongo2 template set, mirroring the go-template engine contract
// so callers already using that engine can swap theirs in.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"
)

// DefaultTemplate is the page used when the caller supplies none: a count
// line followed by each entry's rendered output.
const DefaultTemplate = `{% if name %}== {{ name }} =={% endif %}
{{ results|length }} result(s)
{% for item in results %}
---
{{ item }}
{% endfor %}`

// Option configures the page engine before construction.
type Option func(*config)

type config struct {
	globalData map[string]any
}

// WithGlobalData seeds global context values available to every page
// render.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[key] = value
		}
	}
}

// WithGoTemplateOptions exists for compatibility with callers configuring a
// shared go-template engine and is currently a no-op.
func WithGoTemplateOptions(_ ...gotemplatepkg.Option) Option {
	return func(*config) {}
}

// Engine renders result pages from template strings.
type Engine struct {
	mu  sync.RWMutex
	set *pongo2.TemplateSet
}

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	engine := &Engine{set: pongo2.NewSet("catsearch", pongo2.DefaultLoader)}
	if len(cfg.globalData) > 0 {
		if engine.set.Globals == nil {
			engine.set.Globals = make(pongo2.Context)
		}
		engine.set.Globals.Update(pongo2.Context(cfg.globalData))
	}
	return engine, nil
}

// RenderString parses and executes a page template against the supplied
// data, optionally copying the output to the given writers.
func (e *Engine) RenderString(templateContent string, data map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("page: engine is nil")
	}

	tmpl, err := e.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("page: parse template: %w", err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(pongo2.Context(data), &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("page: execute template: %w", err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", err
		}
	}
	return rendered, nil
}
