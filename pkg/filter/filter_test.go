package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

func TestFilter_Classify(t *testing.T) {
	f, err := New(Config{
		Categories:         DefaultCategories(),
		PriorityCategories: []string{"priority"},
	})
	require.NoError(t, err)

	tests := []struct {
		name       string
		item       domain.ContentItem
		relevant   bool
		strength   domain.MatchStrength
		categories []string
	}{
		{
			name:       "single macro hit",
			item:       domain.ContentItem{Title: "Fed cuts rates by 25 basis points"},
			relevant:   true,
			strength:   domain.MatchWeak,
			categories: []string{"macro"},
		},
		{
			name:       "macro and crypto makes it strong",
			item:       domain.ContentItem{Title: "Bitcoin rallies after Fed rate cut decision"},
			relevant:   true,
			strength:   domain.MatchStrong,
			categories: []string{"crypto", "macro"},
		},
		{
			name:       "priority category single hit is strong",
			item:       domain.ContentItem{Title: "Hyperliquid lists new perpetual markets"},
			relevant:   true,
			strength:   domain.MatchStrong,
			categories: []string{"crypto", "priority"},
		},
		{
			name:       "repeated hits in one category is strong",
			item:       domain.ContentItem{Title: "Inflation report", BodyText: "CPI rose while core inflation stayed flat, PCE due Friday"},
			relevant:   true,
			strength:   domain.MatchStrong,
			categories: []string{"macro"},
		},
		{
			name:     "off-topic item",
			item:     domain.ContentItem{Title: "Local team wins championship"},
			relevant: false,
			strength: domain.MatchWeak,
		},
		{
			name:     "empty item is never relevant",
			item:     domain.ContentItem{},
			relevant: false,
			strength: domain.MatchWeak,
		},
		{
			name:     "whitespace only is never relevant",
			item:     domain.ContentItem{Title: "   ", BodyText: "\n\t"},
			relevant: false,
			strength: domain.MatchWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := f.Classify(tt.item)
			assert.Equal(t, tt.relevant, decision.IsRelevant)
			assert.Equal(t, tt.strength, decision.Strength)
			if tt.categories != nil {
				assert.Equal(t, tt.categories, decision.MatchedCategories)
			}
		})
	}
}

func TestFilter_ClassifyTitleOnly(t *testing.T) {
	// body-less items degrade to title matching instead of being dropped
	f, err := New(Config{Categories: DefaultCategories()})
	require.NoError(t, err)

	decision := f.Classify(domain.ContentItem{Title: "ECB holds rates steady"})
	assert.True(t, decision.IsRelevant)
	assert.Contains(t, decision.MatchedCategories, "macro")
}

func TestFilter_StrictMode(t *testing.T) {
	f, err := New(Config{
		Mode:               ModeStrict,
		Categories:         DefaultCategories(),
		PriorityCategories: []string{"priority"},
	})
	require.NoError(t, err)

	t.Run("weak match rejected", func(t *testing.T) {
		decision := f.Classify(domain.ContentItem{Title: "Fed official gives speech"})
		assert.False(t, decision.IsRelevant)
		assert.Equal(t, domain.MatchWeak, decision.Strength)
		assert.Equal(t, []string{"macro"}, decision.MatchedCategories, "categories still reported for the override path")
	})

	t.Run("strong match accepted", func(t *testing.T) {
		decision := f.Classify(domain.ContentItem{Title: "Hyperliquid volume hits record"})
		assert.True(t, decision.IsRelevant)
		assert.Equal(t, domain.MatchStrong, decision.Strength)
	})
}

func TestFilter_CustomCategories(t *testing.T) {
	f, err := New(Config{
		Categories: map[string][]string{"equities": {`\bnvidia\b`, `\bearnings\b`}},
	})
	require.NoError(t, err)

	decision := f.Classify(domain.ContentItem{Title: "Nvidia earnings beat estimates"})
	assert.True(t, decision.IsRelevant)
	assert.Equal(t, []string{"equities"}, decision.MatchedCategories)
	assert.Equal(t, domain.MatchStrong, decision.Strength, "two hits in one category")

	decision = f.Classify(domain.ContentItem{Title: "Fed cuts rates"})
	assert.False(t, decision.IsRelevant, "default tables not in play when overridden")
}

func TestNew_Errors(t *testing.T) {
	_, err := New(Config{Mode: "aggressive"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter mode")

	_, err = New(Config{Categories: map[string][]string{"bad": {`[unclosed`}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile category")
}

func TestPassthrough_Classify(t *testing.T) {
	p := Passthrough{Category: "timeline"}

	decision := p.Classify(domain.ContentItem{BodyText: "gm, market looks interesting today"})
	assert.True(t, decision.IsRelevant)
	assert.Equal(t, domain.MatchStrong, decision.Strength)
	assert.Equal(t, []string{"timeline"}, decision.MatchedCategories)

	decision = p.Classify(domain.ContentItem{BodyText: "  \n "})
	assert.False(t, decision.IsRelevant, "empty posts rejected even by passthrough")

	decision = Passthrough{}.Classify(domain.ContentItem{Title: "x"})
	assert.Equal(t, []string{"curated"}, decision.MatchedCategories)
}
