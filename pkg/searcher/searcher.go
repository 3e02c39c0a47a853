package searcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/render"
	"github.com/goliatone/go-catsearch/pkg/schema"
)

// Option customises the searcher configuration.
type Option func(*Searcher)

// WithLoader injects a custom schema loader, usually one carrying an
// extended registry, custom formatters, or a catalog resolver.
func WithLoader(loader *schema.Loader) Option {
	return func(s *Searcher) {
		s.loader = loader
	}
}

// WithRenderOptions forwards options to the template renderer.
func WithRenderOptions(options ...render.Option) Option {
	return func(s *Searcher) {
		s.renderOpts = append(s.renderOpts, options...)
	}
}

// WithRenderCache memoizes rendered output per catalog entry. Safe because
// rendering is a pure function of the load-once template and entry; the
// cache is never invalidated.
func WithRenderCache() Option {
	return func(s *Searcher) {
		s.cache = make(map[int]cachedRender)
	}
}

// Request describes one search action: the current field-input state plus
// an optional sort directive.
type Request struct {
	State query.State
	Sort  *query.Sort
}

// Result is one matched entry with its rendered display output.
type Result struct {
	// Index is the entry's position in catalog order.
	Index    int
	Output   string
	Warnings []render.Warning
}

// Response carries the outcome of one search action. Issues are advisory
// per-field input problems; the search they belong to still ran.
type Response struct {
	Generation uint64
	Results    []Result
	Issues     []query.FieldInputError
}

// AsyncResult delivers a background search. Stale marks an evaluation that
// was superseded before it completed; its response is discarded.
type AsyncResult struct {
	Response Response
	Stale    bool
	Err      error
}

type cachedRender struct {
	output   string
	warnings []render.Warning
}

// Searcher owns a session: the load-once config and catalog, the compiled
// pipeline, and the search generation counter. Everything downstream of
// Load is a pure function of the request, so a Searcher is safe for the
// single-user, supersede-on-new-input model it is built for.
type Searcher struct {
	loader     *schema.Loader
	renderOpts []render.Option

	cfg      *schema.Config
	builder  *query.Builder
	engine   *query.Engine
	renderer *render.Renderer

	generation atomic.Uint64

	cacheMu sync.Mutex
	cache   map[int]cachedRender
}

// New constructs a Searcher applying any provided options.
func New(options ...Option) *Searcher {
	s := &Searcher{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.loader == nil {
		s.loader = schema.NewLoader()
	}
	return s
}

// Load parses and validates the config document and compiles the session
// pipeline. It runs once: a second call is an error, the session's schema
// and catalog are read-only for its lifetime.
func (s *Searcher) Load(doc schema.Document) error {
	if s.cfg != nil {
		return errors.New("searcher: config already loaded")
	}

	cfg, err := s.loader.Load(doc)
	if err != nil {
		return err
	}

	reg := s.loader.Registry()
	s.cfg = cfg
	s.builder = query.NewBuilder(cfg.Fields, reg)
	s.engine = query.NewEngine(cfg.Fields, reg)
	s.renderer = render.New(cfg.Template, s.renderOpts...)
	return nil
}

// Config returns the loaded config, or nil before Load.
func (s *Searcher) Config() *schema.Config { return s.cfg }

// Search synchronously runs build → evaluate → render for the request. It
// bumps the search generation, superseding any in-flight background
// search.
func (s *Searcher) Search(ctx context.Context, req Request) (Response, error) {
	gen := s.generation.Add(1)
	return s.run(ctx, req, gen)
}

// SearchAsync runs the same pipeline in a background goroutine. The
// returned channel delivers exactly one AsyncResult; if a newer search
// started before this one finished, the result arrives with Stale set and
// an empty response.
func (s *Searcher) SearchAsync(ctx context.Context, req Request) <-chan AsyncResult {
	gen := s.generation.Add(1)
	ch := make(chan AsyncResult, 1)
	go func() {
		defer close(ch)
		resp, err := s.run(ctx, req, gen)
		if s.generation.Load() != gen {
			ch <- AsyncResult{Stale: true}
			return
		}
		ch <- AsyncResult{Response: resp, Err: err}
	}()
	return ch
}

func (s *Searcher) run(ctx context.Context, req Request, gen uint64) (Response, error) {
	if ctx == nil {
		return Response{}, errors.New("searcher: context is required")
	}
	if s.cfg == nil {
		return Response{}, errors.New("searcher: no config loaded")
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	predicate, issues := s.builder.Build(req.State)

	matched := s.engine.Select(s.cfg.Catalog, predicate)
	ordered, err := s.engine.Order(s.cfg.Catalog, matched, req.Sort)
	if err != nil {
		return Response{}, fmt.Errorf("searcher: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	results := make([]Result, 0, len(ordered))
	for i, idx := range ordered {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return Response{}, err
			}
		}
		output, warnings := s.renderEntry(idx)
		results = append(results, Result{Index: idx, Output: output, Warnings: warnings})
	}

	return Response{Generation: gen, Results: results, Issues: issues}, nil
}

func (s *Searcher) renderEntry(idx int) (string, []render.Warning) {
	if s.cache != nil {
		s.cacheMu.Lock()
		if hit, ok := s.cache[idx]; ok {
			s.cacheMu.Unlock()
			return hit.output, hit.warnings
		}
		s.cacheMu.Unlock()
	}

	output, warnings := s.renderer.Render(s.cfg.Catalog.Entry(idx))

	if s.cache != nil {
		s.cacheMu.Lock()
		s.cache[idx] = cachedRender{output: output, warnings: warnings}
		s.cacheMu.Unlock()
	}
	return output, warnings
}
