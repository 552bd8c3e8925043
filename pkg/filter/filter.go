package filter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// Mode controls the relevance policy
type Mode string

// filter modes
const (
	ModeStandard Mode = "standard" // any hit in any category is relevant
	ModeStrict   Mode = "strict"   // only strong matches are relevant
)

// Config holds filter construction parameters
type Config struct {
	Mode               Mode
	Categories         map[string][]string // category name -> case-insensitive term patterns
	PriorityCategories []string            // any hit in these makes the match strong
	StrongHitThreshold int                 // hits in a single category for a strong match
}

// Filter classifies content items by keyword-category matching.
// Pure function of input and static configuration, no side effects.
type Filter struct {
	mode       Mode
	categories map[string]*regexp.Regexp
	priority   map[string]bool
	threshold  int
}

// New compiles category term lists into a filter. Terms within a category
// are joined into a single case-insensitive alternation, the way the
// original keyword tables were compiled.
func New(cfg Config) (*Filter, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeStandard
	}
	if cfg.Mode != ModeStandard && cfg.Mode != ModeStrict {
		return nil, fmt.Errorf("unknown filter mode %q", cfg.Mode)
	}
	if cfg.StrongHitThreshold == 0 {
		cfg.StrongHitThreshold = 2
	}

	categories := make(map[string]*regexp.Regexp, len(cfg.Categories))
	for name, terms := range cfg.Categories {
		if len(terms) == 0 {
			continue
		}
		re, err := regexp.Compile("(?i)" + strings.Join(terms, "|"))
		if err != nil {
			return nil, fmt.Errorf("compile category %q: %w", name, err)
		}
		categories[name] = re
	}

	priority := make(map[string]bool, len(cfg.PriorityCategories))
	for _, name := range cfg.PriorityCategories {
		priority[name] = true
	}

	return &Filter{
		mode:       cfg.Mode,
		categories: categories,
		priority:   priority,
		threshold:  cfg.StrongHitThreshold,
	}, nil
}

// Classify computes the filter decision for an item. Matching runs against
// the concatenation of title and body; with an empty body it degrades to
// title-only, and with both empty the item is never relevant.
func (f *Filter) Classify(item domain.ContentItem) domain.FilterDecision {
	text := item.Text()
	if strings.TrimSpace(text) == "" {
		return domain.FilterDecision{Strength: domain.MatchWeak}
	}

	var matched []string
	priorityHit := false
	maxHits := 0
	for name, re := range f.categories {
		hits := len(re.FindAllStringIndex(text, -1))
		if hits == 0 {
			continue
		}
		matched = append(matched, name)
		if f.priority[name] {
			priorityHit = true
		}
		if hits > maxHits {
			maxHits = hits
		}
	}
	sort.Strings(matched)

	strength := domain.MatchWeak
	if len(matched) >= 2 || priorityHit || maxHits >= f.threshold {
		strength = domain.MatchStrong
	}

	relevant := len(matched) > 0
	if f.mode == ModeStrict {
		relevant = strength == domain.MatchStrong
	}

	return domain.FilterDecision{
		MatchedCategories: matched,
		IsRelevant:        relevant,
		Strength:          strength,
	}
}

// Mode returns the configured relevance policy
func (f *Filter) Mode() Mode { return f.mode }

// DefaultCategories returns the built-in macro/crypto/priority keyword
// tables, used when the config does not override them.
func DefaultCategories() map[string][]string {
	return map[string][]string{
		"macro": {
			`\bcpi\b`, `\bpce\b`, `\binflation\b`, `\bdeflation\b`,
			`\bfomc\b`, `rate hike`, `rate cut`, `\bfed\b`, `\becb\b`, `\bboj\b`, `\bpboc\b`,
			`\btreasury\b`, `\byield(s)?\b`, `\bbond(s)?\b`, `\bgdp\b`, `\bpmi\b`,
			`\bunemployment\b`, `\bjobs?\b`, `\bnonfarm\b`, `\bmanufacturing\b`, `\bservices\b`,
			`\bqe\b`, `\bqt\b`, `\brecession\b`, `soft landing`, `stagflation`,
		},
		"crypto": {
			`\bbitcoin\b`, `\bbtc\b`, `\beth(ereum)?\b`, `\bsol(ana)?\b`,
			`layer ?2`, `\brollup(s)?\b`, `\bdefi\b`, `\bstablecoin(s)?\b`,
			`\betf\b`, `\bsec\b`, `\bregulation\b`, `\bexchange(s)?\b`, `\bcex\b`, `\bdex\b`,
			`\bbinance\b`, `\bcoinbase\b`, `\bstaking\b`, `\brestaking\b`, `\bairdrops?\b`,
			`\bperpetual(s)?\b`, `\bonchain\b`, `\btoken(s)?\b`, `\bnft(s)?\b`,
		},
		"priority": {
			`\bhyper ?liquid\b`, `\bhl perps?\b`, `hyperliquid exchange`,
		},
	}
}
