package filter

import (
	"strings"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// Passthrough admits everything with non-empty text. Used for curated
// sources (the followed timeline account) where relevance is implied by
// the source itself; empty items are still rejected.
type Passthrough struct {
	Category string // reported as the matched category, e.g. "timeline"
}

// Classify marks any non-empty item as a strong relevant match
func (p Passthrough) Classify(item domain.ContentItem) domain.FilterDecision {
	if strings.TrimSpace(item.Text()) == "" {
		return domain.FilterDecision{Strength: domain.MatchWeak}
	}
	category := p.Category
	if category == "" {
		category = "curated"
	}
	return domain.FilterDecision{
		MatchedCategories: []string{category},
		IsRelevant:        true,
		Strength:          domain.MatchStrong,
	}
}
