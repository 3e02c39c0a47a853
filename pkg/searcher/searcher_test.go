package searcher

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-catsearch/pkg/catalog"
	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/render"
	"github.com/goliatone/go-catsearch/pkg/schema"
)

const sessionConfig = `{
	"name": "Creatures",
	"version": "0.1",
	"fields": [
		{"id": "name", "kind": "text"},
		{"id": "price", "kind": "number", "operator": "range"},
		{"id": "genres", "kind": "multi-choice", "values": ["action", "drama", "comedy"]}
	],
	"template": [
		{"field": "name"},
		" - ",
		{"field": "price", "default": "N/A"}
	],
	"catalog": [
		{"name": "goblin", "price": 10, "genres": ["action", "drama"]},
		{"name": "dragon", "price": 25},
		{"name": "mimic"}
	]
}`

func sessionDoc(t *testing.T) schema.Document {
	t.Helper()
	return schema.MustNewDocument(schema.SourceFromFile("session.json"), []byte(sessionConfig))
}

func loadedSearcher(t *testing.T, options ...Option) *Searcher {
	t.Helper()
	s := New(options...)
	if err := s.Load(sessionDoc(t)); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestSearchFullPipeline(t *testing.T) {
	s := loadedSearcher(t)

	resp, err := s.Search(context.Background(), Request{
		State: query.Values(map[string]any{"price": map[string]any{"min": 20.0}}),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Issues) != 0 {
		t.Fatalf("unexpected issues %v", resp.Issues)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(resp.Results))
	}
	if resp.Results[0].Output != "dragon - 25" {
		t.Fatalf("unexpected output %q", resp.Results[0].Output)
	}
	if resp.Results[0].Index != 1 {
		t.Fatalf("result must carry its catalog position, got %d", resp.Results[0].Index)
	}
}

func TestSearchEmptyStateReturnsWholeCatalog(t *testing.T) {
	s := loadedSearcher(t)

	resp, err := s.Search(context.Background(), Request{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected the full catalog, got %d results", len(resp.Results))
	}
	if resp.Results[2].Output != "mimic - N/A" {
		t.Fatalf("missing price must render the default, got %q", resp.Results[2].Output)
	}
}

func TestSearchReportsIssuesAndStillRuns(t *testing.T) {
	s := loadedSearcher(t)

	resp, err := s.Search(context.Background(), Request{
		State: query.Values(map[string]any{
			"name":  "o",
			"price": "cheap",
		}),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Issues) != 1 || resp.Issues[0].FieldID != "price" {
		t.Fatalf("expected one price issue, got %v", resp.Issues)
	}
	// The bad field contributes an always-false conjunct, so nothing
	// matches; the search itself does not fail.
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results, got %d", len(resp.Results))
	}
}

func TestSearchSorted(t *testing.T) {
	s := loadedSearcher(t)

	resp, err := s.Search(context.Background(), Request{
		Sort: &query.Sort{FieldID: "price", Descending: true},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var got []int
	for _, r := range resp.Results {
		got = append(got, r.Index)
	}
	// dragon (25), goblin (10), then mimic with no price last.
	want := []int{1, 0, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order wrong: %v", got)
		}
	}

	if _, err := s.Search(context.Background(), Request{
		Sort: &query.Sort{FieldID: "banana"},
	}); err == nil {
		t.Fatal("an undeclared sort field must fail the request")
	}
}

func TestSearchBeforeLoad(t *testing.T) {
	s := New()
	if _, err := s.Search(context.Background(), Request{}); err == nil {
		t.Fatal("expected an error before Load")
	}
}

func TestLoadTwice(t *testing.T) {
	s := loadedSearcher(t)
	if err := s.Load(sessionDoc(t)); err == nil {
		t.Fatal("a second Load must fail")
	}
}

func TestSearchCancelledContext(t *testing.T) {
	s := loadedSearcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Search(ctx, Request{}); err == nil {
		t.Fatal("expected a context error")
	}
}

func TestGenerationAdvancesPerSearch(t *testing.T) {
	s := loadedSearcher(t)

	first, err := s.Search(context.Background(), Request{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	second, err := s.Search(context.Background(), Request{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if second.Generation <= first.Generation {
		t.Fatalf("generation must advance: %d then %d", first.Generation, second.Generation)
	}
}

func TestSearchAsyncDeliversResult(t *testing.T) {
	s := loadedSearcher(t)

	ch := s.SearchAsync(context.Background(), Request{
		State: query.Values(map[string]any{"name": "dragon"}),
	})
	res := <-ch
	if res.Err != nil {
		t.Fatalf("async search: %v", res.Err)
	}
	if res.Stale {
		t.Fatal("an unsuperseded search must not be stale")
	}
	if len(res.Response.Results) != 1 || res.Response.Results[0].Output != "dragon - 25" {
		t.Fatalf("unexpected async results %v", res.Response.Results)
	}
}

func TestSearchAsyncStaleWhenSuperseded(t *testing.T) {
	formatters := render.NewFormatters()
	// A deliberately slow formatter keeps the background search in flight
	// long enough for a newer search to supersede it.
	release := make(chan struct{})
	formatters.MustRegister("slow", func(string) render.Formatter {
		return func(v catalog.Value) string {
			<-release
			return v.Display()
		}
	})

	cfg := `{
		"fields": [{"id": "name", "kind": "text"}],
		"template": {"field": "name", "formatter": "slow"},
		"catalog": [{"name": "goblin"}]
	}`
	s := New(WithLoader(schema.NewLoader(schema.WithFormatters(formatters))))
	doc := schema.MustNewDocument(schema.SourceFromFile("slow.json"), []byte(cfg))
	if err := s.Load(doc); err != nil {
		t.Fatalf("load: %v", err)
	}

	ch := s.SearchAsync(context.Background(), Request{})

	// Supersede while the async render is blocked, then let it finish.
	s.generation.Add(1)
	close(release)

	select {
	case res := <-ch:
		if !res.Stale {
			t.Fatal("a superseded search must report stale")
		}
		if len(res.Response.Results) != 0 {
			t.Fatalf("stale results must be discarded, got %v", res.Response.Results)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("async search never delivered")
	}
}

func TestRenderCacheReusesOutput(t *testing.T) {
	formatters := render.NewFormatters()
	calls := 0
	formatters.MustRegister("counted", func(string) render.Formatter {
		return func(v catalog.Value) string {
			calls++
			return v.Display()
		}
	})

	cfg := `{
		"fields": [{"id": "name", "kind": "text"}],
		"template": {"field": "name", "formatter": "counted"},
		"catalog": [{"name": "goblin"}]
	}`
	s := New(
		WithLoader(schema.NewLoader(schema.WithFormatters(formatters))),
		WithRenderCache(),
	)
	doc := schema.MustNewDocument(schema.SourceFromFile("cache.json"), []byte(cfg))
	if err := s.Load(doc); err != nil {
		t.Fatalf("load: %v", err)
	}

	for i := 0; i < 3; i++ {
		resp, err := s.Search(context.Background(), Request{})
		if err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
		if resp.Results[0].Output != "goblin" {
			t.Fatalf("unexpected output %q", resp.Results[0].Output)
		}
	}
	if calls != 1 {
		t.Fatalf("cached entries must render once, rendered %d times", calls)
	}
}
