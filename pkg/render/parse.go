package render

import (
	"fmt"

	"github.com/goliatone/go-catsearch/pkg/model"
	"github.com/goliatone/go-catsearch/pkg/query"
)

// Parser compiles decoded template config into a Node tree. Parsing happens
// once at config load; the resulting tree is immutable and, because it is
// built from a JSON document, structurally acyclic.
type Parser struct {
	predicates *query.Builder
	formatters *Formatters
	declared   map[string]struct{}
}

// NewParser binds the schema tables a template needs: the predicate builder
// for conditional nodes and the formatter registry for field refs.
func NewParser(fields []model.Field, predicates *query.Builder, formatters *Formatters) *Parser {
	declared := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		declared[f.ID] = struct{}{}
	}
	if formatters == nil {
		formatters = NewFormatters()
	}
	return &Parser{predicates: predicates, formatters: formatters, declared: declared}
}

// Parse compiles a template declaration. Supported forms:
//
//	"text"                                     literal
//	[node, ...]                                sequence
//	{"literal": "text"}                        literal
//	{"field": id, "formatter": spec, "default": text}
//	{"when": predicate, "then": node, "else": node}
//	{"foreach": id, "body": node, "separator": s, "default": text}
//	{"switch": id, "cases": {value: node}, "default": node}
//
// Conditional predicates are validated strictly against the schema; field
// refs may name any entry key, declared or not.
func (p *Parser) Parse(raw any) (Node, error) {
	switch v := raw.(type) {
	case string:
		return Literal{Text: v}, nil
	case []any:
		seq := make(Sequence, 0, len(v))
		for i, elem := range v {
			child, err := p.Parse(elem)
			if err != nil {
				return nil, fmt.Errorf("render: sequence[%d]: %w", i, err)
			}
			seq = append(seq, child)
		}
		return seq, nil
	case map[string]any:
		return p.parseObject(v)
	default:
		return nil, fmt.Errorf("render: template node must be a string, array, or object, got %T", raw)
	}
}

func (p *Parser) parseObject(obj map[string]any) (Node, error) {
	if text, has := obj["literal"]; has {
		s, ok := text.(string)
		if !ok {
			return nil, fmt.Errorf("render: literal text must be a string, got %T", text)
		}
		return Literal{Text: s}, nil
	}
	if _, has := obj["field"]; has {
		return p.parseFieldRef(obj)
	}
	if _, has := obj["when"]; has {
		return p.parseConditional(obj)
	}
	if _, has := obj["foreach"]; has {
		return p.parseForEach(obj)
	}
	if _, has := obj["switch"]; has {
		return p.parseSwitch(obj)
	}
	return nil, fmt.Errorf("render: template node needs one of literal, field, when, foreach, switch")
}

func (p *Parser) parseFieldRef(obj map[string]any) (Node, error) {
	id, err := stringKey(obj, "field")
	if err != nil {
		return nil, err
	}

	node := FieldRef{FieldID: id}
	_, node.declared = p.declared[id]

	if rawSpec, has := obj["formatter"]; has {
		spec, ok := rawSpec.(string)
		if !ok {
			return nil, fmt.Errorf("render: formatter spec for field %q must be a string, got %T", id, rawSpec)
		}
		node.Formatter = spec
		node.formatter = p.formatters.Resolve(spec)
	}
	if rawDefault, has := obj["default"]; has {
		s, ok := rawDefault.(string)
		if !ok {
			return nil, fmt.Errorf("render: default for field %q must be a string, got %T", id, rawDefault)
		}
		node.Default = s
	}
	return node, nil
}

func (p *Parser) parseConditional(obj map[string]any) (Node, error) {
	pred, err := p.predicates.ParseSpec(obj["when"])
	if err != nil {
		return nil, fmt.Errorf("render: conditional: %w", err)
	}

	node := Conditional{When: pred}
	if rawThen, has := obj["then"]; has {
		node.Then, err = p.Parse(rawThen)
		if err != nil {
			return nil, fmt.Errorf("render: conditional then: %w", err)
		}
	}
	if rawElse, has := obj["else"]; has {
		node.Else, err = p.Parse(rawElse)
		if err != nil {
			return nil, fmt.Errorf("render: conditional else: %w", err)
		}
	}
	if node.Then == nil && node.Else == nil {
		return nil, fmt.Errorf("render: conditional needs a then and/or else branch")
	}
	return node, nil
}

func (p *Parser) parseForEach(obj map[string]any) (Node, error) {
	id, err := stringKey(obj, "foreach")
	if err != nil {
		return nil, err
	}
	rawBody, has := obj["body"]
	if !has {
		return nil, fmt.Errorf("render: foreach over %q needs a body", id)
	}
	body, err := p.Parse(rawBody)
	if err != nil {
		return nil, fmt.Errorf("render: foreach body: %w", err)
	}

	node := ForEach{FieldID: id, Body: body}
	if rawSep, has := obj["separator"]; has {
		s, ok := rawSep.(string)
		if !ok {
			return nil, fmt.Errorf("render: foreach separator must be a string, got %T", rawSep)
		}
		node.Separator = s
	}
	if rawDefault, has := obj["default"]; has {
		s, ok := rawDefault.(string)
		if !ok {
			return nil, fmt.Errorf("render: foreach default must be a string, got %T", rawDefault)
		}
		node.Default = s
	}
	return node, nil
}

func (p *Parser) parseSwitch(obj map[string]any) (Node, error) {
	id, err := stringKey(obj, "switch")
	if err != nil {
		return nil, err
	}
	rawCases, has := obj["cases"]
	if !has {
		return nil, fmt.Errorf("render: switch on %q needs cases", id)
	}
	caseObj, ok := rawCases.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("render: switch cases must be an object, got %T", rawCases)
	}

	node := Switch{FieldID: id, Cases: make(map[string]Node, len(caseObj))}
	for value, rawNode := range caseObj {
		child, err := p.Parse(rawNode)
		if err != nil {
			return nil, fmt.Errorf("render: switch case %q: %w", value, err)
		}
		node.Cases[value] = child
	}

	rawDefault, has := obj["default"]
	if !has {
		return nil, fmt.Errorf("render: switch on %q needs a default case", id)
	}
	node.Default, err = p.Parse(rawDefault)
	if err != nil {
		return nil, fmt.Errorf("render: switch default: %w", err)
	}
	return node, nil
}

func stringKey(obj map[string]any, key string) (string, error) {
	raw := obj[key]
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("render: %q must be a string, got %T", key, raw)
	}
	if s == "" {
		return "", fmt.Errorf("render: %q must not be empty", key)
	}
	return s, nil
}
