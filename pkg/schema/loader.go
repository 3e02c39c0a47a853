package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/registry"
	"github.com/goliatone/go-catsearch/pkg/render"
)

// CatalogResolver turns a catalog reference string into raw catalog bytes.
// It is supplied by the file-loading collaborator; the core never touches
// the filesystem or the network itself.
type CatalogResolver func(ref string) ([]byte, error)

// Option customises the loader configuration.
type Option func(*Loader)

// WithRegistry injects a field type registry, usually one extended with
// custom operators.
func WithRegistry(reg *registry.Registry) Option {
	return func(l *Loader) {
		l.registry = reg
	}
}

// WithFormatters injects a formatter registry for template field refs.
func WithFormatters(formatters *render.Formatters) Option {
	return func(l *Loader) {
		l.formatters = formatters
	}
}

// WithCatalogResolver wires the collaborator callback used when the config
// references its catalog by name instead of embedding it.
func WithCatalogResolver(resolve CatalogResolver) Option {
	return func(l *Loader) {
		l.resolve = resolve
	}
}

// Loader parses and validates config documents into Configs. Validation is
// fail-fast: the first fatal structural problem aborts the load and no
// partially usable Config is ever returned.
type Loader struct {
	registry   *registry.Registry
	formatters *render.Formatters
	resolve    CatalogResolver
}

// NewLoader constructs a Loader, applying defaults for anything the options
// leave unset.
func NewLoader(options ...Option) *Loader {
	l := &Loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.registry == nil {
		l.registry = registry.New()
	}
	if l.formatters == nil {
		l.formatters = render.NewFormatters()
	}
	return l
}

// Registry returns the field type registry the loader validates against.
func (l *Loader) Registry() *registry.Registry { return l.registry }

// Formatters returns the formatter registry templates resolve through.
func (l *Loader) Formatters() *render.Formatters { return l.formatters }

// Load parses the document and validates it into a Config.
func (l *Loader) Load(doc Document) (*Config, error) {
	top, err := decodeDocument(doc)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	if raw, has := top["name"]; has {
		s, ok := raw.(string)
		if !ok {
			return nil, configErrf("name", "must be a string, got %T", raw)
		}
		cfg.Name = s
	}
	if raw, has := top["version"]; has {
		s, ok := raw.(string)
		if !ok {
			return nil, configErrf("version", "must be a string, got %T", raw)
		}
		if major := strings.SplitN(s, ".", 2)[0]; major != "0" {
			return nil, configErrf("version", "unsupported format version %q", s)
		}
		cfg.Version = s
	}

	rawFields, has := top["fields"]
	if !has {
		return nil, configErrf("fields", "required key is missing")
	}
	fieldList, ok := rawFields.([]any)
	if !ok {
		return nil, configErrf("fields", "must be an array, got %T", rawFields)
	}
	if err := l.parseFields(cfg, fieldList); err != nil {
		return nil, err
	}

	cfg.fields = make(map[string]model.Field, len(cfg.Fields))
	for _, f := range cfg.Fields {
		cfg.fields[f.ID] = f
	}

	if rawTemplate, has := top["template"]; has {
		parser := render.NewParser(cfg.Fields, query.NewBuilder(cfg.Fields, l.registry), l.formatters)
		node, err := parser.Parse(rawTemplate)
		if err != nil {
			return nil, &ConfigError{Key: "template", Err: err}
		}
		cfg.Template = node
	}

	rawCatalog, has := top["catalog"]
	if !has {
		return nil, configErrf("catalog", "required key is missing")
	}
	if err := l.loadCatalog(cfg, rawCatalog); err != nil {
		return nil, err
	}

	known := map[string]struct{}{
		"name": {}, "version": {}, "fields": {}, "template": {}, "catalog": {},
	}
	var unknown []string
	for key := range top {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("schema: unused top-level key %q", key))
	}

	return cfg, nil
}

func decodeDocument(doc Document) (map[string]any, error) {
	raw := doc.Raw()
	var top map[string]any

	switch doc.DetectFormat() {
	case FormatJSON:
		if err := json.Unmarshal(raw, &top); err != nil {
			return nil, configErrf("", "invalid JSON config %s: %v", doc.Location(), err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &top); err != nil {
			return nil, configErrf("", "invalid YAML config %s: %v", doc.Location(), err)
		}
	default:
		if err := json.Unmarshal(raw, &top); err != nil {
			if yamlErr := yaml.Unmarshal(raw, &top); yamlErr != nil {
				return nil, configErrf("", "config %s is neither valid JSON (%v) nor YAML (%v)", doc.Location(), err, yamlErr)
			}
		}
	}
	if top == nil {
		return nil, configErrf("", "config document must be an object")
	}
	return top, nil
}

// parseFields walks the (possibly nested) fields array, flattening field
// definitions while recording the nesting as UI layout geometry. Positions
// in error messages count flattened fields, so duplicate reports are stable
// across loads.
func (l *Loader) parseFields(cfg *Config, list []any) error {
	positions := make(map[string]int)
	layout, err := l.parseFieldGroup(cfg, list, positions)
	if err != nil {
		return err
	}
	if len(cfg.Fields) == 0 {
		return configErrf("fields", "at least one field is required")
	}
	cfg.Layout = layout
	return nil
}

func (l *Loader) parseFieldGroup(cfg *Config, list []any, positions map[string]int) (Layout, error) {
	var layout Layout
	for _, elem := range list {
		switch item := elem.(type) {
		case []any:
			group, err := l.parseFieldGroup(cfg, item, positions)
			if err != nil {
				return nil, err
			}
			layout = append(layout, LayoutItem{Group: group})
		case map[string]any:
			field, err := l.parseField(item)
			if err != nil {
				return nil, err
			}
			if first, dup := positions[field.ID]; dup {
				return nil, configErrf("fields", "duplicate field id %q (field #%d and field #%d)", field.ID, first, len(cfg.Fields))
			}
			positions[field.ID] = len(cfg.Fields)
			cfg.Fields = append(cfg.Fields, field)
			layout = append(layout, LayoutItem{FieldID: field.ID})
		default:
			return nil, configErrf("fields", "items must be field objects or nested arrays, got %T", elem)
		}
	}
	return layout, nil
}

func (l *Loader) parseField(item map[string]any) (model.Field, error) {
	var field model.Field

	rawID, has := item["id"]
	if !has {
		return field, configErrf("fields", "field item is missing an id")
	}
	id, ok := rawID.(string)
	if !ok || id == "" {
		return field, configErrf("fields", "field id must be a non-empty string, got %v", rawID)
	}
	field.ID = id

	rawKind, has := item["kind"]
	if !has {
		return field, configErrf(id, "field is missing a kind")
	}
	kindName, ok := rawKind.(string)
	if !ok {
		return field, configErrf(id, "kind must be a string, got %T", rawKind)
	}
	kind := model.Kind(kindName)
	if !kind.Valid() {
		return field, configErrf(id, "unsupported kind %q", kindName)
	}
	field.Kind = kind

	if raw, has := item["label"]; has {
		if field.Label, ok = raw.(string); !ok {
			return field, configErrf(id, "label must be a string, got %T", raw)
		}
	}
	if raw, has := item["operator"]; has {
		name, ok := raw.(string)
		if !ok {
			return field, configErrf(id, "operator must be a string, got %T", raw)
		}
		if !l.registry.Has(kind, name) {
			return field, configErrf(id, "operator %q is not allowed for kind %q", name, kind)
		}
		field.Operator = name
	}
	if raw, has := item["widget"]; has {
		if field.Widget, ok = raw.(string); !ok {
			return field, configErrf(id, "widget must be a string, got %T", raw)
		}
	}
	field.Default = item["default"]

	if raw, has := item["values"]; has {
		values, err := stringSlice(raw)
		if err != nil {
			return field, configErrf(id, "values: %v", err)
		}
		field.Values = values
	}
	if raw, has := item["min"]; has {
		f, err := asFloat(raw)
		if err != nil {
			return field, configErrf(id, "min: %v", err)
		}
		field.Min = &f
	}
	if raw, has := item["max"]; has {
		f, err := asFloat(raw)
		if err != nil {
			return field, configErrf(id, "max: %v", err)
		}
		field.Max = &f
	}
	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		return field, configErrf(id, "min %v exceeds max %v", *field.Min, *field.Max)
	}
	if raw, has := item["listed"]; has {
		list, ok := raw.([]any)
		if !ok {
			return field, configErrf(id, "listed must be an array, got %T", raw)
		}
		for _, elem := range list {
			f, err := asFloat(elem)
			if err != nil {
				return field, configErrf(id, "listed: %v", err)
			}
			field.Listed = append(field.Listed, f)
		}
	}

	return field, nil
}

func (l *Loader) loadCatalog(cfg *Config, raw any) error {
	switch v := raw.(type) {
	case []any:
		cat, warnings := catalog.FromJSON(v)
		cfg.Catalog = cat
		cfg.Warnings = append(cfg.Warnings, warnings...)
		return nil
	case string:
		cfg.CatalogRef = v
		if l.resolve == nil {
			return configErrf("catalog", "catalog reference %q requires a resolver", v)
		}
		data, err := l.resolve(v)
		if err != nil {
			return configErrf("catalog", "resolve %q: %v", v, err)
		}
		var list []any
		if err := json.Unmarshal(data, &list); err != nil {
			if yamlErr := yaml.Unmarshal(data, &list); yamlErr != nil {
				return configErrf("catalog", "reference %q is not a JSON or YAML array: %v", v, err)
			}
		}
		cat, warnings := catalog.FromJSON(list)
		cfg.Catalog = cat
		cfg.Warnings = append(cfg.Warnings, warnings...)
		return nil
	default:
		return configErrf("catalog", "must be an embedded array or a reference string, got %T", raw)
	}
}

func stringSlice(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of strings, got %T", raw)
	}
	out := make([]string, 0, len(list))
	for _, elem := range list {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("expected string elements, got %T", elem)
		}
		out = append(out, s)
	}
	return out, nil
}

func asFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("expected a number, got %T", raw)
	}
}
