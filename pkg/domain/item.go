package domain

import "time"

// ContentItem is one unit of ingested content, produced by an ingestion
// collaborator (feed parser or timeline scraper). Immutable once constructed.
type ContentItem struct {
	ID          string      // stable external identifier, unique per source
	SourceName  string      // feed title or @username
	Title       string      // optional, timeline posts have none
	BodyText    string
	URL         string
	PublishedAt time.Time   // may be zero if the source did not provide it
	FetchedAt   time.Time
	Engagement  *Engagement // timeline posts only, nil for articles
}

// Engagement holds public interaction counts for a timeline post
type Engagement struct {
	Replies int
	Reposts int
	Likes   int
}

// Text returns the normalized text used for filtering and scoring:
// title and body joined, title-only when the body is empty.
func (i ContentItem) Text() string {
	if i.BodyText == "" {
		return i.Title
	}
	if i.Title == "" {
		return i.BodyText
	}
	return i.Title + "\n" + i.BodyText
}

// MatchStrength qualifies how strongly an item matched the filter categories
type MatchStrength string

// match strength values
const (
	MatchWeak   MatchStrength = "weak"
	MatchStrong MatchStrength = "strong"
)

// FilterDecision is the relevance filter output for a single item.
// Transient, computed once per item, never persisted.
type FilterDecision struct {
	MatchedCategories []string // sorted category names with at least one hit
	IsRelevant        bool
	Strength          MatchStrength
}

// HasCategory reports whether the given category matched
func (d FilterDecision) HasCategory(name string) bool {
	for _, c := range d.MatchedCategories {
		if c == name {
			return true
		}
	}
	return false
}

// SentimentLabel is the verdict class derived from the ensemble score
type SentimentLabel string

// sentiment labels
const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// ModelResult is a single sentiment model's output before combination
type ModelResult struct {
	Label SentimentLabel
	Raw   float64 // model-native confidence or polarity
	Score float64 // normalized to the common 0-10 scale
}

// SentimentVerdict is the combined ensemble output for one text.
// Deterministic for fixed model outputs and fixed input text.
type SentimentVerdict struct {
	Label              SentimentLabel
	Score              float64                // 0.0-10.0 confidence-weighted scale
	PerModel           map[string]ModelResult // model name -> result, failed models absent
	AdjustmentsApplied []string               // adjustment reasons in application order
}

// SeenRecord is a persisted admission record in the dedup store
type SeenRecord struct {
	ItemID      string    `db:"item_id"`
	Source      string    `db:"source"`
	FirstSeenTS time.Time `db:"first_seen_ts"`
}

// Payload is a formatted notification ready for the delivery collaborator
type Payload struct {
	Text           string // HTML-formatted message body
	DisablePreview bool
}

// CycleSummary is the structured result of one orchestrator cycle
type CycleSummary struct {
	Source      string        `json:"source"`
	Fetched     int           `json:"fetched"`
	FilteredOut int           `json:"filtered_out"`
	Duplicate   int           `json:"duplicate"`
	Delivered   int           `json:"delivered"`
	Failed      int           `json:"failed"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}
