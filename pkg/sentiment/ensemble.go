package sentiment

import (
	"context"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// WeightedModel pairs a model with its ensemble weights. Weight applies to
// long-form text, ShortWeight below the short-text cutoff, so short social
// posts can lean on the social/lexicon models and articles on the finance
// model.
type WeightedModel struct {
	Model       Model
	Weight      float64
	ShortWeight float64
}

// AdjustmentRule nudges the combined score when a domain phrase appears.
// Deltas are on the 0-10 scale and applied additively in listed order.
type AdjustmentRule struct {
	Phrases []string `yaml:"phrases" json:"phrases"`
	Delta   float64  `yaml:"delta" json:"delta"`
	Reason  string   `yaml:"reason" json:"reason"`
}

// Config holds ensemble construction parameters
type Config struct {
	Models         []WeightedModel
	Adjustments    []AdjustmentRule
	ShortTextChars int // texts shorter than this use ShortWeight, default 280
}

// Ensemble combines independent sentiment models into one
// confidence-weighted verdict. Individual model failures are swallowed and
// the model excluded; if every model fails the deterministic lexicon
// fallback guarantees a verdict.
type Ensemble struct {
	models         []WeightedModel
	adjustments    []AdjustmentRule
	shortTextChars int
	fallback       *Lexicon
}

// NewEnsemble creates an ensemble over the given models
func NewEnsemble(cfg Config) *Ensemble {
	if cfg.ShortTextChars == 0 {
		cfg.ShortTextChars = 280
	}
	if len(cfg.Adjustments) == 0 {
		cfg.Adjustments = DefaultAdjustments()
	}
	return &Ensemble{
		models:         cfg.Models,
		adjustments:    cfg.Adjustments,
		shortTextChars: cfg.ShortTextChars,
		fallback:       NewLexicon(),
	}
}

// Score produces the ensemble verdict for the text. It never fails: for a
// fixed set of model outputs the result is exactly reproducible.
func (e *Ensemble) Score(ctx context.Context, text string) domain.SentimentVerdict {
	text = strings.TrimSpace(text)
	perModel := make(map[string]domain.ModelResult, len(e.models)+1)

	short := len(text) < e.shortTextChars

	var weightedSum, totalWeight float64
	for _, wm := range e.models {
		res, err := wm.Model.Score(ctx, text)
		if err != nil {
			lgr.Printf("[WARN] sentiment model %s failed, excluded from ensemble: %v", wm.Model.Name(), err)
			continue
		}
		perModel[wm.Model.Name()] = res

		weight := wm.Weight
		if short {
			weight = wm.ShortWeight
		}
		if weight <= 0 {
			continue
		}
		weightedSum += res.Score * weight
		totalWeight += weight
	}

	var score float64
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	} else {
		// all models failed (or none configured), fall back to the lexicon
		res := e.fallback.ScoreText(text)
		perModel[e.fallback.Name()] = res
		score = res.Score
	}

	score, applied := e.applyAdjustments(text, score)

	return domain.SentimentVerdict{
		Label:              LabelForScore(score),
		Score:              score,
		PerModel:           perModel,
		AdjustmentsApplied: applied,
	}
}

// applyAdjustments runs the domain phrase rules over the text, in order,
// and re-clamps the final score to [0,10]
func (e *Ensemble) applyAdjustments(text string, score float64) (adjusted float64, applied []string) {
	lower := strings.ToLower(text)
	for _, rule := range e.adjustments {
		for _, phrase := range rule.Phrases {
			if strings.Contains(lower, phrase) {
				score += rule.Delta
				applied = append(applied, rule.Reason)
				break
			}
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score, applied
}

// DefaultAdjustments returns the built-in domain phrase rules, mirroring
// the policy-easing/enforcement heuristics of the original rule table
func DefaultAdjustments() []AdjustmentRule {
	return []AdjustmentRule{
		{Phrases: []string{"rate cut", "dovish", "etf approval"}, Delta: 0.5, Reason: "rate-cut-language"},
		{Phrases: []string{"inflation cools", "disinflation"}, Delta: 0.4, Reason: "disinflation-language"},
		{Phrases: []string{"rate hike", "hawkish", "liquidity crunch"}, Delta: -0.5, Reason: "rate-hike-language"},
		{Phrases: []string{"sec charges", "lawsuit", "enforcement action"}, Delta: -0.4, Reason: "enforcement-language"},
		{Phrases: []string{"banned", "bans ", "crackdown"}, Delta: -0.4, Reason: "ban-language"},
	}
}
