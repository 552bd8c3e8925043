package proc

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier
//go:generate moq -out mocks/scorer.go -pkg mocks -skip-ensure -fmt goimports . Scorer
//go:generate moq -out mocks/seen_store.go -pkg mocks -skip-ensure -fmt goimports . SeenStore
//go:generate moq -out mocks/formatter.go -pkg mocks -skip-ensure -fmt goimports . Formatter
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// Fetcher is the ingestion collaborator producing new content items
type Fetcher interface {
	Source() string
	Fetch(ctx context.Context) ([]domain.ContentItem, error)
}

// Classifier decides whether an item is in scope
type Classifier interface {
	Classify(item domain.ContentItem) domain.FilterDecision
}

// Scorer produces a sentiment verdict, it never fails
type Scorer interface {
	Score(ctx context.Context, text string) domain.SentimentVerdict
}

// SeenStore is the durable admission gate
type SeenStore interface {
	IsNew(ctx context.Context, itemID string) (bool, error)
	MarkSeen(ctx context.Context, itemID, source string, ts time.Time) error
}

// Formatter renders a processed item into a delivery payload
type Formatter interface {
	Format(item domain.ContentItem, decision domain.FilterDecision, verdict domain.SentimentVerdict) domain.Payload
}

// Notifier is the delivery collaborator
type Notifier interface {
	Send(ctx context.Context, p domain.Payload) error
}

// Processor runs the per-cycle pipeline for one bot:
// fetch -> filter -> dedup -> score -> format -> deliver -> mark seen.
// Items are marked seen only after successful delivery, so transient
// delivery failures are retried next cycle (at-least-once, never
// at-most-once). Store errors abort the cycle: without the durable
// admission gate the delivery guarantee cannot be upheld.
type Processor struct {
	fetcher    Fetcher
	classifier Classifier
	scorer     Scorer
	store      SeenStore
	formatter  Formatter
	notifier   Notifier

	pollInterval time.Duration
	maxAge       time.Duration // backfill cap, 0 disables

	// strict-mode escape hatch: weak-matched items with extreme sentiment
	// are admitted anyway
	sentimentOverride bool
	overrideHigh      float64
	overrideLow       float64

	mu          sync.Mutex
	lastSummary *domain.CycleSummary
}

// Params holds processor dependencies and settings
type Params struct {
	Fetcher    Fetcher
	Classifier Classifier
	Scorer     Scorer
	Store      SeenStore
	Formatter  Formatter
	Notifier   Notifier

	PollInterval      time.Duration
	MaxAge            time.Duration
	SentimentOverride bool
	OverrideHigh      float64
	OverrideLow       float64
}

// NewProcessor creates a pipeline processor for one content source
func NewProcessor(p Params) *Processor {
	if p.PollInterval == 0 {
		p.PollInterval = 3 * time.Minute
	}
	if p.OverrideHigh == 0 {
		p.OverrideHigh = 8.0
	}
	if p.OverrideLow == 0 {
		p.OverrideLow = 2.0
	}
	return &Processor{
		fetcher:           p.Fetcher,
		classifier:        p.Classifier,
		scorer:            p.Scorer,
		store:             p.Store,
		formatter:         p.Formatter,
		notifier:          p.Notifier,
		pollInterval:      p.PollInterval,
		maxAge:            p.MaxAge,
		sentimentOverride: p.SentimentOverride,
		overrideHigh:      p.OverrideHigh,
		overrideLow:       p.OverrideLow,
	}
}

// Source identifies the processed content source
func (p *Processor) Source() string { return p.fetcher.Source() }

// Run executes cycles until the context is canceled. The first cycle
// starts immediately, cycles never overlap. Cycle errors are logged and
// the loop keeps going; the supervisor decides when to give up.
func (p *Processor) Run(ctx context.Context) error {
	lgr.Printf("[INFO] %s processor started, poll interval %v", p.Source(), p.pollInterval)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] %s processor stopped", p.Source())
			return ctx.Err()
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle executes one cycle and records its summary
func (p *Processor) runCycle(ctx context.Context) {
	summary, err := p.ProcessCycle(ctx)
	if err != nil {
		lgr.Printf("[ERROR] %s cycle aborted: %v", p.Source(), err)
	}

	p.mu.Lock()
	p.lastSummary = &summary
	p.mu.Unlock()

	lgr.Printf("[INFO] %s cycle done: fetched=%d filtered=%d duplicate=%d delivered=%d failed=%d in %v",
		summary.Source, summary.Fetched, summary.FilteredOut, summary.Duplicate,
		summary.Delivered, summary.Failed, summary.Duration.Round(time.Millisecond))
}

// LastSummary returns the most recent cycle summary, false before the
// first cycle completes
func (p *Processor) LastSummary() (domain.CycleSummary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastSummary == nil {
		return domain.CycleSummary{}, false
	}
	return *p.lastSummary, true
}

// ProcessCycle runs the pipeline once over a fresh batch. Fetch errors are
// transient: logged, the cycle proceeds with whatever was returned. A
// store error aborts the cycle immediately and is returned to the caller.
func (p *Processor) ProcessCycle(ctx context.Context) (domain.CycleSummary, error) {
	start := time.Now()
	summary := domain.CycleSummary{Source: p.Source()}

	items, err := p.fetcher.Fetch(ctx)
	if err != nil {
		lgr.Printf("[WARN] %s fetch failed, proceeding with %d items: %v", p.Source(), len(items), err)
	}
	summary.Fetched = len(items)

	for _, item := range items {
		if err := p.processItem(ctx, item, &summary); err != nil {
			summary.Duration = time.Since(start)
			summary.CompletedAt = time.Now()
			return summary, err
		}
	}

	summary.Duration = time.Since(start)
	summary.CompletedAt = time.Now()
	return summary, nil
}

// processItem runs one item through the pipeline, updating counters.
// A returned error is a store failure and aborts the cycle.
func (p *Processor) processItem(ctx context.Context, item domain.ContentItem, summary *domain.CycleSummary) error {
	// backfill cap: stale items are admitted to the store without delivery
	if p.maxAge > 0 && !item.PublishedAt.IsZero() && time.Since(item.PublishedAt) > p.maxAge {
		if err := p.store.MarkSeen(ctx, item.ID, p.Source(), time.Now()); err != nil {
			return fmt.Errorf("mark stale item %s: %w", item.ID, err)
		}
		summary.FilteredOut++
		return nil
	}

	decision := p.classifier.Classify(item)
	var verdict *domain.SentimentVerdict

	if !decision.IsRelevant {
		// extreme sentiment can override a weak match in strict mode
		if !p.sentimentOverride || len(decision.MatchedCategories) == 0 {
			summary.FilteredOut++
			return nil
		}
		v := p.scorer.Score(ctx, item.Text())
		if v.Score < p.overrideHigh && v.Score > p.overrideLow {
			summary.FilteredOut++
			return nil
		}
		lgr.Printf("[DEBUG] %s admitting weak match %s on sentiment %.2f", p.Source(), item.ID, v.Score)
		verdict = &v
	}

	isNew, err := p.store.IsNew(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("dedup check for %s: %w", item.ID, err)
	}
	if !isNew {
		summary.Duplicate++
		return nil
	}

	if verdict == nil {
		v := p.scorer.Score(ctx, item.Text())
		verdict = &v
	}

	payload := p.formatter.Format(item, decision, *verdict)

	if err := p.notifier.Send(ctx, payload); err != nil {
		// not marked seen, eligible for retry next cycle
		lgr.Printf("[WARN] %s delivery failed for %s, will retry next cycle: %v", p.Source(), item.ID, err)
		summary.Failed++
		return nil
	}

	if err := p.store.MarkSeen(ctx, item.ID, p.Source(), time.Now()); err != nil {
		return fmt.Errorf("mark delivered item %s: %w", item.ID, err)
	}
	summary.Delivered++
	return nil
}
