package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/goliatone/go-catsearch/pkg/query"
	"github.com/goliatone/go-catsearch/pkg/render"
	"github.com/goliatone/go-catsearch/pkg/render/page"
	"github.com/goliatone/go-catsearch/pkg/schema"
	"github.com/goliatone/go-catsearch/pkg/searcher"
	"github.com/goliatone/go-catsearch/pkg/tui"
)

func main() {
	configPath := flag.String("config", "catalog.json", "catalog config path (JSON or YAML)")
	sortField := flag.String("sort", "", "field id to sort results on")
	descending := flag.Bool("desc", false, "sort descending")
	sanitize := flag.Bool("html", false, "sanitize rendered output as HTML")
	cache := flag.Bool("cache", false, "memoize rendered entries across searches")
	pagePath := flag.String("page", "", "results page template (pongo2), stdout default if empty")
	flag.Parse()

	ctx := context.Background()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(*configPath), data)
	if err != nil {
		log.Fatalf("wrap config: %v", err)
	}

	baseDir := filepath.Dir(*configPath)
	loader := schema.NewLoader(schema.WithCatalogResolver(func(ref string) ([]byte, error) {
		return os.ReadFile(filepath.Join(baseDir, ref))
	}))

	options := []searcher.Option{searcher.WithLoader(loader)}
	if *sanitize {
		options = append(options, searcher.WithRenderOptions(render.WithSanitizer()))
	}
	if *cache {
		options = append(options, searcher.WithRenderCache())
	}

	s := searcher.New(options...)
	if err := s.Load(doc); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := s.Config()
	for _, warning := range cfg.Warnings {
		fmt.Fprintln(os.Stderr, warning)
	}

	pageTemplate := page.DefaultTemplate
	if *pagePath != "" {
		raw, err := os.ReadFile(*pagePath)
		if err != nil {
			log.Fatalf("read page template: %v", err)
		}
		pageTemplate = string(raw)
	}
	pages, err := page.New(page.WithGlobalData(map[string]any{"name": cfg.Name}))
	if err != nil {
		log.Fatalf("page engine: %v", err)
	}

	var sort *query.Sort
	if *sortField != "" {
		sort = &query.Sort{FieldID: *sortField, Descending: *descending}
	}

	driver := tui.NewSurveyDriver()
	session := tui.NewSession(driver, cfg)

	for {
		state, err := session.CollectState(ctx)
		if err != nil {
			if errors.Is(err, tui.ErrInterrupted) {
				return
			}
			log.Fatalf("collect input: %v", err)
		}

		resp, err := s.Search(ctx, searcher.Request{State: state, Sort: sort})
		if err != nil {
			log.Fatalf("search: %v", err)
		}
		for _, issue := range resp.Issues {
			fmt.Fprintln(os.Stderr, issue.Error())
		}

		outputs := make([]string, 0, len(resp.Results))
		for _, result := range resp.Results {
			outputs = append(outputs, result.Output)
			for _, warning := range result.Warnings {
				fmt.Fprintln(os.Stderr, warning.String())
			}
		}
		rendered, err := pages.RenderString(pageTemplate, map[string]any{"results": outputs})
		if err != nil {
			log.Fatalf("render page: %v", err)
		}
		fmt.Println(rendered)

		again, err := driver.Select(ctx, tui.SelectConfig{
			Message: "Search again?",
			Options: []string{"yes", "quit"},
		})
		if err != nil || again != 0 {
			return
		}
	}
}
