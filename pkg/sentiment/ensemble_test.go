package sentiment

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildmeta/marketpulse/pkg/domain"
	"github.com/wildmeta/marketpulse/pkg/sentiment/mocks"
)

// fixedModel returns a mock that always yields the given score
func fixedModel(name string, score float64) *mocks.ModelMock {
	return &mocks.ModelMock{
		NameFunc: func() string { return name },
		ScoreFunc: func(_ context.Context, _ string) (domain.ModelResult, error) {
			return domain.ModelResult{Label: LabelForScore(score), Score: score}, nil
		},
	}
}

func TestEnsemble_WeightedCombination(t *testing.T) {
	e := NewEnsemble(Config{
		Models: []WeightedModel{
			{Model: fixedModel("a", 8.0), Weight: 1, ShortWeight: 1},
			{Model: fixedModel("b", 4.0), Weight: 3, ShortWeight: 3},
		},
	})

	longText := strings.Repeat("some longer market commentary about nothing in particular, ", 6)
	require.GreaterOrEqual(t, len(longText), 280)

	v := e.Score(context.Background(), longText)
	assert.InDelta(t, 5.0, v.Score, 0.0001, "(8*1+4*3)/4")
	assert.Equal(t, domain.SentimentNeutral, v.Label)
	assert.Len(t, v.PerModel, 2)
}

func TestEnsemble_ShortTextWeights(t *testing.T) {
	e := NewEnsemble(Config{
		Models: []WeightedModel{
			{Model: fixedModel("article", 9.0), Weight: 1, ShortWeight: 0},
			{Model: fixedModel("social", 3.0), Weight: 0, ShortWeight: 1},
		},
	})

	v := e.Score(context.Background(), "short bearish post")
	assert.InDelta(t, 3.0, v.Score, 0.0001, "short text leans on the social model")
	assert.Len(t, v.PerModel, 2, "excluded model still reported")
}

func TestEnsemble_ModelFailureExcluded(t *testing.T) {
	failing := &mocks.ModelMock{
		NameFunc: func() string { return "flaky" },
		ScoreFunc: func(_ context.Context, _ string) (domain.ModelResult, error) {
			return domain.ModelResult{}, fmt.Errorf("upstream 503")
		},
	}
	e := NewEnsemble(Config{
		Models: []WeightedModel{
			{Model: failing, Weight: 5, ShortWeight: 5},
			{Model: fixedModel("steady", 7.0), Weight: 1, ShortWeight: 1},
		},
	})

	v := e.Score(context.Background(), "bitcoin etf update")
	assert.InDelta(t, 7.0, v.Score, 0.0001, "failed model carries no weight")
	assert.Len(t, v.PerModel, 1)
	assert.NotContains(t, v.PerModel, "flaky")
}

func TestEnsemble_AllModelsFailFallsBackToLexicon(t *testing.T) {
	failing := &mocks.ModelMock{
		NameFunc: func() string { return "remote" },
		ScoreFunc: func(_ context.Context, _ string) (domain.ModelResult, error) {
			return domain.ModelResult{}, fmt.Errorf("network down")
		},
	}
	e := NewEnsemble(Config{
		Models: []WeightedModel{{Model: failing, Weight: 1, ShortWeight: 1}},
	})

	v := e.Score(context.Background(), "terrible crash, markets plunge")
	require.Contains(t, v.PerModel, "lexicon")
	assert.Equal(t, domain.SentimentNegative, v.Label)
	assert.Less(t, v.Score, ThresholdNeutral)
}

func TestEnsemble_NoModelsConfigured(t *testing.T) {
	e := NewEnsemble(Config{})

	v := e.Score(context.Background(), "strong rally, record gains")
	require.Contains(t, v.PerModel, "lexicon")
	assert.Equal(t, domain.SentimentPositive, v.Label)
}

func TestEnsemble_Deterministic(t *testing.T) {
	newEnsemble := func() *Ensemble {
		return NewEnsemble(Config{
			Models: []WeightedModel{
				{Model: fixedModel("a", 6.2), Weight: 2, ShortWeight: 1},
				{Model: fixedModel("b", 4.8), Weight: 1, ShortWeight: 2},
			},
		})
	}
	text := "Fed signals a rate cut at the next meeting"

	first := newEnsemble().Score(context.Background(), text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, newEnsemble().Score(context.Background(), text), "bit-identical across fresh instances")
	}
}

func TestEnsemble_Adjustments(t *testing.T) {
	t.Run("default rules applied in order", func(t *testing.T) {
		e := NewEnsemble(Config{
			Models: []WeightedModel{{Model: fixedModel("m", 5.0), Weight: 1, ShortWeight: 1}},
		})

		v := e.Score(context.Background(), "Fed announces rate cut amid disinflation trend")
		assert.InDelta(t, 5.9, v.Score, 0.0001, "5.0 +0.5 rate-cut +0.4 disinflation")
		assert.Equal(t, []string{"rate-cut-language", "disinflation-language"}, v.AdjustmentsApplied)
	})

	t.Run("custom rule", func(t *testing.T) {
		e := NewEnsemble(Config{
			Models: []WeightedModel{{Model: fixedModel("m", 5.0), Weight: 1, ShortWeight: 1}},
			Adjustments: []AdjustmentRule{
				{Phrases: []string{"halving"}, Delta: 1.0, Reason: "halving-hype"},
			},
		})

		v := e.Score(context.Background(), "bitcoin halving approaches")
		assert.InDelta(t, 6.0, v.Score, 0.0001)
		assert.Equal(t, []string{"halving-hype"}, v.AdjustmentsApplied)
	})

	t.Run("score clamped to range", func(t *testing.T) {
		e := NewEnsemble(Config{
			Models: []WeightedModel{{Model: fixedModel("m", 9.9), Weight: 1, ShortWeight: 1}},
			Adjustments: []AdjustmentRule{
				{Phrases: []string{"moon"}, Delta: 3.0, Reason: "over-the-top"},
			},
		})

		v := e.Score(context.Background(), "to the moon")
		assert.InDelta(t, 10.0, v.Score, 0.0001)

		e = NewEnsemble(Config{
			Models: []WeightedModel{{Model: fixedModel("m", 0.1), Weight: 1, ShortWeight: 1}},
			Adjustments: []AdjustmentRule{
				{Phrases: []string{"rug"}, Delta: -3.0, Reason: "rug-pull"},
			},
		})
		v = e.Score(context.Background(), "another rug pull")
		assert.InDelta(t, 0.0, v.Score, 0.0001)
	})
}

func TestEnsemble_ScoreAlwaysInRange(t *testing.T) {
	e := NewEnsemble(Config{
		Models: []WeightedModel{{Model: fixedModel("m", 5.0), Weight: 1, ShortWeight: 1}},
	})

	texts := []string{
		"", "   ", "rate cut rate hike banned lawsuit disinflation",
		"absolutely nothing relevant", "crash crash crash crash crash",
	}
	for _, text := range texts {
		v := e.Score(context.Background(), text)
		assert.GreaterOrEqual(t, v.Score, 0.0, "text %q", text)
		assert.LessOrEqual(t, v.Score, 10.0, "text %q", text)
	}
}
