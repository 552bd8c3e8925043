package feed

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Extractor pulls full article text from an item link
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Fetcher is the RSS ingestion collaborator: it fetches all configured
// feeds concurrently, optionally enriches items with extracted article
// bodies, and returns them in configuration order.
type Fetcher struct {
	urls       []string
	parser     *Parser
	extractor  Extractor // nil disables body extraction
	minBodyLen int       // extraction triggers when the feed body is shorter
	maxWorkers int
}

// FetcherConfig holds fetcher construction parameters
type FetcherConfig struct {
	URLs       []string
	Parser     *Parser
	Extractor  Extractor
	MinBodyLen int
	MaxWorkers int
}

// NewFetcher creates the multi-feed fetcher
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.MinBodyLen == 0 {
		cfg.MinBodyLen = 200
	}
	return &Fetcher{
		urls:       cfg.URLs,
		parser:     cfg.Parser,
		extractor:  cfg.Extractor,
		minBodyLen: cfg.MinBodyLen,
		maxWorkers: cfg.MaxWorkers,
	}
}

// Source identifies this collaborator in summaries and seen records
func (f *Fetcher) Source() string { return "feeds" }

// Fetch retrieves new items from all feeds. Individual feed failures are
// logged and skipped; an error is returned only when every feed failed,
// and the orchestrator treats it as an empty cycle.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.ContentItem, error) {
	results := make([][]domain.ContentItem, len(f.urls))
	var failures atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxWorkers)

	for i, url := range f.urls {
		g.Go(func() error {
			_, items, err := f.parser.Parse(gctx, url)
			if err != nil {
				lgr.Printf("[WARN] feed fetch failed %s: %v", url, err)
				failures.Add(1)
				return nil
			}
			for j := range items {
				f.enrich(gctx, &items[j])
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are counted

	// flatten preserving configuration order for deterministic processing
	var items []domain.ContentItem
	for _, r := range results {
		items = append(items, r...)
	}

	if len(f.urls) > 0 && int(failures.Load()) == len(f.urls) {
		return nil, fmt.Errorf("all %d feeds failed", len(f.urls))
	}
	return items, nil
}

// enrich replaces a thin feed body with extracted article text when possible
func (f *Fetcher) enrich(ctx context.Context, item *domain.ContentItem) {
	if f.extractor == nil || item.URL == "" || len(item.BodyText) >= f.minBodyLen {
		return
	}

	extractCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	text, err := f.extractor.Extract(extractCtx, item.URL)
	if err != nil {
		lgr.Printf("[DEBUG] body extraction failed for %s: %v", item.URL, err)
		return
	}
	if len(text) > len(item.BodyText) {
		item.BodyText = text
	}
}
