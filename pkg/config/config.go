package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=Status server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Status server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Status server configuration"`

	Telegram TelegramConfig `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram delivery configuration"`

	Feeds FeedsConfig `yaml:"feeds" json:"feeds" jsonschema:"description=News feed ingestion configuration"`

	Timeline TimelineConfig `yaml:"timeline" json:"timeline" jsonschema:"description=Timeline ingestion configuration"`

	Filter FilterConfig `yaml:"filter" json:"filter" jsonschema:"description=Relevance filter configuration"`

	Sentiment SentimentConfig `yaml:"sentiment" json:"sentiment" jsonschema:"description=Sentiment ensemble configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Full-text extraction configuration"`

	Database DatabaseConfig `yaml:"database" json:"database" jsonschema:"description=Seen-item database configuration"`
}

// TelegramConfig holds delivery settings shared by both bots; each bot
// posts into its own forum topic of the same chat
type TelegramConfig struct {
	Token            string        `yaml:"token" json:"token" jsonschema:"required,description=Bot API token (can use environment variable)"`
	ChatID           string        `yaml:"chat_id" json:"chat_id" jsonschema:"required,description=Target chat or channel ID"`
	NewsThreadID     int           `yaml:"news_thread_id" json:"news_thread_id" jsonschema:"description=Forum topic for news articles (0 for none)"`
	TimelineThreadID int           `yaml:"timeline_thread_id" json:"timeline_thread_id" jsonschema:"description=Forum topic for timeline posts (0 for none)"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=20s,description=Request timeout"`
}

// FeedsConfig holds the news bot ingestion settings
type FeedsConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=true,description=Enable the news bot"`
	URLs          []string      `yaml:"urls" json:"urls" jsonschema:"description=RSS/Atom feed URLs polled each cycle"`
	PollInterval  time.Duration `yaml:"poll_interval" json:"poll_interval" jsonschema:"default=3m,description=Delay between cycles"`
	MaxAge        time.Duration `yaml:"max_age" json:"max_age" jsonschema:"default=24h,description=Items older than this are marked seen without delivery (0 disables)"`
	MaxWorkers    int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Concurrent feed fetches"`
	MinBodyLength int           `yaml:"min_body_length" json:"min_body_length" jsonschema:"default=200,description=Feed entries with shorter bodies get full-text extraction"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=MarketPulse/1.0,description=User agent for feed requests"`
}

// TimelineConfig holds the timeline bot ingestion settings
type TimelineConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable the timeline bot"`
	Username     string        `yaml:"username" json:"username" jsonschema:"description=Account to follow, without the @"`
	Instances    []string      `yaml:"instances" json:"instances" jsonschema:"description=Nitter mirror base URLs, tried in order"`
	MaxPosts     int           `yaml:"max_posts" json:"max_posts" jsonschema:"default=5,description=Posts read per cycle"`
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval" jsonschema:"default=2m,description=Delay between cycles"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout per mirror"`
}

// FilterConfig holds relevance filter settings. Categories left empty fall
// back to the built-in macro/crypto/priority tables.
type FilterConfig struct {
	Mode               string              `yaml:"mode" json:"mode" jsonschema:"default=standard,enum=standard,enum=strict,description=standard delivers any match; strict requires a strong match"`
	Categories         map[string][]string `yaml:"categories" json:"categories" jsonschema:"description=Category name to regex terms, overrides the built-in tables"`
	PriorityCategories []string            `yaml:"priority_categories" json:"priority_categories" jsonschema:"description=Categories whose single hit counts as strong"`
	StrongHitThreshold int                 `yaml:"strong_hit_threshold" json:"strong_hit_threshold" jsonschema:"default=2,description=Hits within one category that make the match strong"`
	SentimentOverride  bool                `yaml:"sentiment_override" json:"sentiment_override" jsonschema:"default=false,description=In strict mode admit weak matches with extreme sentiment"`
	OverrideHigh       float64             `yaml:"override_high" json:"override_high" jsonschema:"default=8,description=Sentiment score at or above which a weak match is admitted"`
	OverrideLow        float64             `yaml:"override_low" json:"override_low" jsonschema:"default=2,description=Sentiment score at or below which a weak match is admitted"`
}

// ModelConfig holds one remote sentiment model of the ensemble
type ModelConfig struct {
	Enabled     bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Include this model in the ensemble"`
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=Inference API endpoint"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model       string        `yaml:"model" json:"model" jsonschema:"description=Model name for OpenAI-compatible endpoints"`
	Weight      float64       `yaml:"weight" json:"weight" jsonschema:"default=1,description=Ensemble weight for regular text"`
	ShortWeight float64       `yaml:"short_weight" json:"short_weight" jsonschema:"description=Ensemble weight for short text (defaults to weight)"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// Adjustment is one phrase-triggered score correction, applied in order
// after the ensemble combination
type Adjustment struct {
	Phrases []string `yaml:"phrases" json:"phrases" jsonschema:"required,description=Trigger phrases, matched case-insensitively"`
	Delta   float64  `yaml:"delta" json:"delta" jsonschema:"required,description=Score delta on the 0-10 scale"`
	Reason  string   `yaml:"reason" json:"reason" jsonschema:"required,description=Short tag shown in the notification"`
}

// SentimentConfig holds the ensemble settings. The lexicon model is always
// on: it is the zero-dependency fallback when remote models fail.
type SentimentConfig struct {
	FinBERT ModelConfig `yaml:"finbert" json:"finbert" jsonschema:"description=Finance-tuned transformer via HF inference API"`
	LLM     ModelConfig `yaml:"llm" json:"llm" jsonschema:"description=OpenAI-compatible chat model"`

	LexiconWeight      float64 `yaml:"lexicon_weight" json:"lexicon_weight" jsonschema:"default=1,description=Ensemble weight of the built-in lexicon scorer"`
	LexiconShortWeight float64 `yaml:"lexicon_short_weight" json:"lexicon_short_weight" jsonschema:"description=Lexicon weight for short text (defaults to lexicon_weight)"`

	ShortTextChars int          `yaml:"short_text_chars" json:"short_text_chars" jsonschema:"default=280,description=Texts at or below this length use the short weights"`
	Adjustments    []Adjustment `yaml:"adjustments" json:"adjustments" jsonschema:"description=Phrase-triggered corrections, replaces the built-in table when set"`
}

// ExtractionConfig holds full-text extraction settings for short feed entries
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable full-text extraction"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=MarketPulse/1.0,description=User agent for article requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=200,description=Minimum extracted length to consider valid"`
}

// DatabaseConfig holds seen-item store settings, one database per bot so
// the bots can run and restart independently
type DatabaseConfig struct {
	NewsDSN         string `yaml:"news_dsn" json:"news_dsn" jsonschema:"default=file:marketpulse-news.db?cache=shared&mode=rwc,description=News bot database connection string"`
	TimelineDSN     string `yaml:"timeline_dsn" json:"timeline_dsn" jsonschema:"default=file:marketpulse-timeline.db?cache=shared&mode=rwc,description=Timeline bot database connection string"`
	MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
	MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Config{}
	cfg.Feeds.Enabled = true // on unless switched off explicitly
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values section by section
func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 20 * time.Second
	}

	if cfg.Feeds.PollInterval == 0 {
		cfg.Feeds.PollInterval = 3 * time.Minute
	}
	if cfg.Feeds.MaxAge == 0 {
		cfg.Feeds.MaxAge = 24 * time.Hour
	}
	if cfg.Feeds.MaxWorkers == 0 {
		cfg.Feeds.MaxWorkers = 5
	}
	if cfg.Feeds.MinBodyLength == 0 {
		cfg.Feeds.MinBodyLength = 200
	}
	if cfg.Feeds.UserAgent == "" {
		cfg.Feeds.UserAgent = "MarketPulse/1.0"
	}

	if cfg.Timeline.MaxPosts == 0 {
		cfg.Timeline.MaxPosts = 5
	}
	if cfg.Timeline.PollInterval == 0 {
		cfg.Timeline.PollInterval = 2 * time.Minute
	}
	if cfg.Timeline.Timeout == 0 {
		cfg.Timeline.Timeout = 30 * time.Second
	}

	if cfg.Filter.Mode == "" {
		cfg.Filter.Mode = "standard"
	}
	if cfg.Filter.StrongHitThreshold == 0 {
		cfg.Filter.StrongHitThreshold = 2
	}
	if cfg.Filter.OverrideHigh == 0 {
		cfg.Filter.OverrideHigh = 8.0
	}
	if cfg.Filter.OverrideLow == 0 {
		cfg.Filter.OverrideLow = 2.0
	}

	if cfg.Sentiment.FinBERT.Weight == 0 {
		cfg.Sentiment.FinBERT.Weight = 1.0
	}
	if cfg.Sentiment.FinBERT.Timeout == 0 {
		cfg.Sentiment.FinBERT.Timeout = 30 * time.Second
	}
	if cfg.Sentiment.LLM.Weight == 0 {
		cfg.Sentiment.LLM.Weight = 1.0
	}
	if cfg.Sentiment.LLM.Timeout == 0 {
		cfg.Sentiment.LLM.Timeout = 30 * time.Second
	}
	if cfg.Sentiment.LexiconWeight == 0 {
		cfg.Sentiment.LexiconWeight = 1.0
	}
	if cfg.Sentiment.ShortTextChars == 0 {
		cfg.Sentiment.ShortTextChars = 280
	}

	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "MarketPulse/1.0"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 200
	}

	if cfg.Database.NewsDSN == "" {
		cfg.Database.NewsDSN = "file:marketpulse-news.db?cache=shared&mode=rwc"
	}
	if cfg.Database.TimelineDSN == "" {
		cfg.Database.TimelineDSN = "file:marketpulse-timeline.db?cache=shared&mode=rwc"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}

	if !cfg.Feeds.Enabled && !cfg.Timeline.Enabled {
		return fmt.Errorf("at least one of feeds or timeline must be enabled")
	}
	if cfg.Feeds.Enabled && len(cfg.Feeds.URLs) == 0 {
		return fmt.Errorf("feeds.urls is required when feeds are enabled")
	}
	if cfg.Timeline.Enabled {
		if cfg.Timeline.Username == "" {
			return fmt.Errorf("timeline.username is required when timeline is enabled")
		}
		if len(cfg.Timeline.Instances) == 0 {
			return fmt.Errorf("timeline.instances is required when timeline is enabled")
		}
	}

	if cfg.Filter.Mode != "standard" && cfg.Filter.Mode != "strict" {
		return fmt.Errorf("filter.mode must be standard or strict")
	}
	if cfg.Filter.OverrideHigh < 0 || cfg.Filter.OverrideHigh > 10 {
		return fmt.Errorf("filter.override_high must be between 0 and 10")
	}
	if cfg.Filter.OverrideLow < 0 || cfg.Filter.OverrideLow > 10 {
		return fmt.Errorf("filter.override_low must be between 0 and 10")
	}

	if cfg.Sentiment.FinBERT.Enabled && cfg.Sentiment.FinBERT.Endpoint == "" {
		return fmt.Errorf("sentiment.finbert.endpoint is required when finbert is enabled")
	}
	if cfg.Sentiment.LLM.Enabled {
		if cfg.Sentiment.LLM.Endpoint == "" {
			return fmt.Errorf("sentiment.llm.endpoint is required when llm is enabled")
		}
		if cfg.Sentiment.LLM.Model == "" {
			return fmt.Errorf("sentiment.llm.model is required when llm is enabled")
		}
	}
	for i, adj := range cfg.Sentiment.Adjustments {
		if len(adj.Phrases) == 0 {
			return fmt.Errorf("sentiment.adjustments[%d]: phrases are required", i)
		}
		if adj.Reason == "" {
			return fmt.Errorf("sentiment.adjustments[%d]: reason is required", i)
		}
	}

	if cfg.Extraction.Enabled && cfg.Extraction.Timeout < time.Second {
		return fmt.Errorf("extraction timeout must be at least 1 second")
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns status server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}
