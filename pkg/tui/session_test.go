package tui

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/schema"
)

// scriptDriver replays canned answers in prompt order.
type scriptDriver struct {
	t       *testing.T
	inputs  []string
	selects []int
	multis  [][]int

	prompts []string
}

func (d *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.inputs) == 0 {
		d.t.Fatalf("unexpected input prompt %q", cfg.Message)
	}
	out := d.inputs[0]
	d.inputs = d.inputs[1:]
	return out, nil
}

func (d *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.selects) == 0 {
		d.t.Fatalf("unexpected select prompt %q", cfg.Message)
	}
	out := d.selects[0]
	d.selects = d.selects[1:]
	return out, nil
}

func (d *scriptDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	d.prompts = append(d.prompts, cfg.Message)
	if len(d.multis) == 0 {
		d.t.Fatalf("unexpected multi-select prompt %q", cfg.Message)
	}
	out := d.multis[0]
	d.multis = d.multis[1:]
	return out, nil
}

func sessionConfig(t *testing.T) *schema.Config {
	t.Helper()
	doc := schema.MustNewDocument(schema.SourceFromFile("session.json"), []byte(`{
		"fields": [
			{"id": "name", "kind": "text", "label": "Name"},
			{"id": "price", "kind": "number", "operator": "range"},
			{"id": "legendary", "kind": "boolean"},
			{"id": "size", "kind": "choice", "values": ["small", "large"]},
			{"id": "genres", "kind": "multi-choice", "values": ["action", "drama", "comedy"]}
		],
		"catalog": []
	}`))
	cfg, err := schema.NewLoader().Load(doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return cfg
}

func TestCollectStateAllKinds(t *testing.T) {
	driver := &scriptDriver{
		t:       t,
		inputs:  []string{"gob", "10", "50"},
		selects: []int{1, 2},
		multis:  [][]int{{0, 2}},
	}
	session := NewSession(driver, sessionConfig(t))

	state, err := session.CollectState(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	want := query.State{
		"name":      {Operand: "gob"},
		"price":     {Operand: map[string]any{"min": "10", "max": "50"}},
		"legendary": {Operand: true},
		"size":      {Operand: "large"},
		"genres":    {Operand: []string{"action", "comedy"}},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}

	wantPrompts := []string{"Name", "price (min)", "price (max)", "legendary", "size", "genres"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectStateSkipsEmptyAnswers(t *testing.T) {
	driver := &scriptDriver{
		t:       t,
		inputs:  []string{"", "", ""},
		selects: []int{0, 0},
		multis:  [][]int{nil},
	}
	session := NewSession(driver, sessionConfig(t))

	state, err := session.CollectState(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(state) != 0 {
		t.Fatalf("empty answers must leave every field unconstrained, got %v", state)
	}
}

func TestCollectStatePartialRange(t *testing.T) {
	driver := &scriptDriver{
		t:       t,
		inputs:  []string{"", "20", ""},
		selects: []int{0, 0},
		multis:  [][]int{nil},
	}
	session := NewSession(driver, sessionConfig(t))

	state, err := session.CollectState(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	want := query.State{
		"price": {Operand: map[string]any{"min": "20"}},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectStateStopsOnDriverError(t *testing.T) {
	driver := &errDriver{err: ErrInterrupted}
	session := NewSession(driver, sessionConfig(t))

	if _, err := session.CollectState(context.Background()); err != ErrInterrupted {
		t.Fatalf("driver errors must abort collection, got %v", err)
	}
}

type errDriver struct {
	err error
}

func (d *errDriver) Input(context.Context, InputConfig) (string, error) { return "", d.err }
func (d *errDriver) Select(context.Context, SelectConfig) (int, error)  { return 0, d.err }
func (d *errDriver) MultiSelect(context.Context, SelectConfig) ([]int, error) {
	return nil, d.err
}
