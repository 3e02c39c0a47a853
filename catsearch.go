// Package catsearch turns a declarative JSON catalog description (field
// definitions, a display template, and a set of arbitrary records) into a
// working search pipeline: typed predicates compiled from user input,
// evaluated against the in-memory catalog, with matches rendered through
// the template tree. The root package re-exports the session-level API;
// the building blocks live under pkg/.
package catsearch

import (
	"context"

	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/schema"
	"github.com/goliatone/go-catsearch/pkg/searcher"
)

// Request describes one search action.
type Request = searcher.Request

// Response carries the outcome of one search action.
type Response = searcher.Response

// Result is one matched entry with its rendered output.
type Result = searcher.Result

// State maps field ids to their current inputs.
type State = query.State

// Sort directs result ordering on a field.
type Sort = query.Sort

// NewSearcher exposes the session constructor from the top-level module.
func NewSearcher(options ...searcher.Option) *searcher.Searcher {
	return searcher.New(options...)
}

// Search loads the config document and runs a single search against it.
// It is the simplest entry point for callers that just want rendered
// matches for one input state.
func Search(ctx context.Context, doc schema.Document, state State, options ...searcher.Option) (Response, error) {
	s := searcher.New(options...)
	if err := s.Load(doc); err != nil {
		return Response{}, err
	}
	return s.Search(ctx, Request{State: state})
}
