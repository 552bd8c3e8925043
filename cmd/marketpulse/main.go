package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/wildmeta/marketpulse/pkg/config"
	"github.com/wildmeta/marketpulse/pkg/content"
	"github.com/wildmeta/marketpulse/pkg/feed"
	"github.com/wildmeta/marketpulse/pkg/filter"
	"github.com/wildmeta/marketpulse/pkg/notify"
	"github.com/wildmeta/marketpulse/pkg/proc"
	"github.com/wildmeta/marketpulse/pkg/sentiment"
	"github.com/wildmeta/marketpulse/pkg/store"
	"github.com/wildmeta/marketpulse/pkg/timeline"
	"github.com/wildmeta/marketpulse/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Printf("failed to load config %s: %v\n", opts.Config, err)
		os.Exit(1)
	}

	setupLog(opts.Debug, opts.NoColor, secrets(cfg)...)

	lgr.Printf("[INFO] starting marketpulse version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	err = run(ctx, cfg, opts.Debug)
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		lgr.Printf("[ERROR] marketpulse failed: %v", err)
		os.Exit(1)
	}

	lgr.Printf("[INFO] shutdown complete")
}

// run wires the enabled bots and the status server and supervises them
// until the context is canceled or one of them fails hard
func run(ctx context.Context, cfg *config.Config, debug bool) error {
	scorer := makeScorer(cfg.Sentiment)

	var providers []server.SummaryProvider
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Feeds.Enabled {
		p, closer, err := makeNewsProcessor(cfg, scorer)
		if err != nil {
			return fmt.Errorf("news bot setup: %w", err)
		}
		defer closer() //nolint:errcheck // closing on the way out
		providers = append(providers, p)
		g.Go(func() error { return p.Run(gctx) })
	}

	if cfg.Timeline.Enabled {
		p, closer, err := makeTimelineProcessor(cfg, scorer)
		if err != nil {
			return fmt.Errorf("timeline bot setup: %w", err)
		}
		defer closer() //nolint:errcheck // closing on the way out
		providers = append(providers, p)
		g.Go(func() error { return p.Run(gctx) })
	}

	srv := server.New(cfg, providers, revision, debug)
	g.Go(func() error { return srv.Run(gctx) })

	return g.Wait()
}

// makeScorer builds the sentiment ensemble from config. The lexicon model
// is always part of it, remote models join when enabled.
func makeScorer(cfg config.SentimentConfig) *sentiment.Ensemble {
	lexShort := cfg.LexiconShortWeight
	if lexShort == 0 {
		lexShort = cfg.LexiconWeight
	}
	models := []sentiment.WeightedModel{
		{Model: sentiment.NewLexicon(), Weight: cfg.LexiconWeight, ShortWeight: lexShort},
	}

	if cfg.FinBERT.Enabled {
		short := cfg.FinBERT.ShortWeight
		if short == 0 {
			short = cfg.FinBERT.Weight
		}
		models = append(models, sentiment.WeightedModel{
			Model: sentiment.NewFinBERT(sentiment.FinBERTConfig{
				Endpoint: cfg.FinBERT.Endpoint,
				APIKey:   cfg.FinBERT.APIKey,
				Timeout:  cfg.FinBERT.Timeout,
			}),
			Weight:      cfg.FinBERT.Weight,
			ShortWeight: short,
		})
	}

	if cfg.LLM.Enabled {
		short := cfg.LLM.ShortWeight
		if short == 0 {
			short = cfg.LLM.Weight
		}
		models = append(models, sentiment.WeightedModel{
			Model: sentiment.NewLLM(sentiment.LLMConfig{
				Endpoint: cfg.LLM.Endpoint,
				APIKey:   cfg.LLM.APIKey,
				Model:    cfg.LLM.Model,
			}),
			Weight:      cfg.LLM.Weight,
			ShortWeight: short,
		})
	}

	adjustments := make([]sentiment.AdjustmentRule, 0, len(cfg.Adjustments))
	for _, a := range cfg.Adjustments {
		adjustments = append(adjustments, sentiment.AdjustmentRule{Phrases: a.Phrases, Delta: a.Delta, Reason: a.Reason})
	}

	return sentiment.NewEnsemble(sentiment.Config{
		Models:         models,
		Adjustments:    adjustments,
		ShortTextChars: cfg.ShortTextChars,
	})
}

// makeNewsProcessor wires the feeds bot: RSS fetcher with optional article
// extraction, keyword filter, article formatter and its own seen store
func makeNewsProcessor(cfg *config.Config, scorer *sentiment.Ensemble) (*proc.Processor, func() error, error) {
	categories := cfg.Filter.Categories
	priority := cfg.Filter.PriorityCategories
	if len(categories) == 0 {
		categories = filter.DefaultCategories()
		if len(priority) == 0 {
			priority = []string{"priority"}
		}
	}
	f, err := filter.New(filter.Config{
		Mode:               filter.Mode(cfg.Filter.Mode),
		Categories:         categories,
		PriorityCategories: priority,
		StrongHitThreshold: cfg.Filter.StrongHitThreshold,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build filter: %w", err)
	}

	seen, err := store.New(store.Config{
		DSN:             cfg.Database.NewsDSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open news store: %w", err)
	}

	var extractor feed.Extractor
	if cfg.Extraction.Enabled {
		extractor = content.NewExtractor(content.Config{
			Timeout:       cfg.Extraction.Timeout,
			UserAgent:     cfg.Extraction.UserAgent,
			MinTextLength: cfg.Extraction.MinTextLength,
		})
	}

	fetcher := feed.NewFetcher(feed.FetcherConfig{
		URLs:       cfg.Feeds.URLs,
		Parser:     feed.NewParser(30*time.Second, cfg.Feeds.UserAgent),
		Extractor:  extractor,
		MinBodyLen: cfg.Feeds.MinBodyLength,
		MaxWorkers: cfg.Feeds.MaxWorkers,
	})

	notifier := notify.NewTelegram(notify.TelegramConfig{
		Token:    cfg.Telegram.Token,
		ChatID:   cfg.Telegram.ChatID,
		ThreadID: cfg.Telegram.NewsThreadID,
		Timeout:  cfg.Telegram.Timeout,
	})

	p := proc.NewProcessor(proc.Params{
		Fetcher:           fetcher,
		Classifier:        f,
		Scorer:            scorer,
		Store:             seen,
		Formatter:         notify.NewArticleFormatter(),
		Notifier:          notifier,
		PollInterval:      cfg.Feeds.PollInterval,
		MaxAge:            cfg.Feeds.MaxAge,
		SentimentOverride: cfg.Filter.SentimentOverride,
		OverrideHigh:      cfg.Filter.OverrideHigh,
		OverrideLow:       cfg.Filter.OverrideLow,
	})
	return p, seen.Close, nil
}

// makeTimelineProcessor wires the timeline bot: nitter scraper, passthrough
// filter, post formatter and its own seen store
func makeTimelineProcessor(cfg *config.Config, scorer *sentiment.Ensemble) (*proc.Processor, func() error, error) {
	seen, err := store.New(store.Config{
		DSN:             cfg.Database.TimelineDSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open timeline store: %w", err)
	}

	scraper := timeline.NewScraper(timeline.Config{
		Username:  cfg.Timeline.Username,
		Instances: cfg.Timeline.Instances,
		MaxPosts:  cfg.Timeline.MaxPosts,
		Timeout:   cfg.Timeline.Timeout,
	})

	notifier := notify.NewTelegram(notify.TelegramConfig{
		Token:    cfg.Telegram.Token,
		ChatID:   cfg.Telegram.ChatID,
		ThreadID: cfg.Telegram.TimelineThreadID,
		Timeout:  cfg.Telegram.Timeout,
	})

	p := proc.NewProcessor(proc.Params{
		Fetcher:      scraper,
		Classifier:   filter.Passthrough{Category: "timeline"},
		Scorer:       scorer,
		Store:        seen,
		Formatter:    notify.NewPostFormatter(),
		Notifier:     notifier,
		PollInterval: cfg.Timeline.PollInterval,
	})
	return p, seen.Close, nil
}

// secrets collects sensitive config values to mask in logs
func secrets(cfg *config.Config) []string {
	var secs []string
	for _, s := range []string{cfg.Telegram.Token, cfg.Sentiment.FinBERT.APIKey, cfg.Sentiment.LLM.APIKey} {
		if s != "" {
			secs = append(secs, s)
		}
	}
	return secs
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
