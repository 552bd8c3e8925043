package sentiment

import (
	"context"
	"math"
	"strings"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// Lexicon is a deterministic rule-based scorer used as the ensemble
// fallback. It is a pure function of its input with no external
// dependencies, so it can never fail.
type Lexicon struct{}

// NewLexicon creates the fallback lexicon scorer
func NewLexicon() *Lexicon { return &Lexicon{} }

// Name returns the model name used in per-model results
func (l *Lexicon) Name() string { return "lexicon" }

// Score implements Model and never returns an error
func (l *Lexicon) Score(_ context.Context, text string) (domain.ModelResult, error) {
	return l.ScoreText(text), nil
}

// ScoreText computes a VADER-style valence score: token valences summed
// with negation and booster handling, compressed to [-1,1] and mapped to
// the common 0-10 scale.
func (l *Lexicon) ScoreText(text string) domain.ModelResult {
	tokens := tokenize(text)

	var sum float64
	for i, tok := range tokens {
		valence, ok := valences[tok]
		if !ok {
			continue
		}

		// look back up to three tokens for negators and boosters
		scalar := 1.0
		for j := i - 1; j >= 0 && j >= i-3; j-- {
			if negators[tokens[j]] {
				scalar *= -0.74
			}
			if b, ok := boosters[tokens[j]]; ok {
				scalar *= 1 + b
			}
		}
		sum += valence * scalar
	}

	// vader-style normalization to [-1,1]
	compound := sum / math.Sqrt(sum*sum+15)

	score := normalize(compound)
	return domain.ModelResult{
		Label: LabelForScore(score),
		Raw:   compound,
		Score: score,
	}
}

// tokenize lowercases and splits on whitespace, trimming punctuation
func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.Trim(f, ".,;:!?\"'()[]{}#$%")
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true,
	"hardly": true, "barely": true, "isn't": true, "wasn't": true,
	"won't": true, "doesn't": true, "didn't": true, "can't": true,
}

var boosters = map[string]float64{
	"very": 0.293, "extremely": 0.293, "hugely": 0.293, "massively": 0.293,
	"sharply": 0.2, "strongly": 0.2, "slightly": -0.293, "somewhat": -0.293,
	"marginally": -0.293,
}

// valences is a compact finance-flavored lexicon on the VADER -4..4 scale
var valences = map[string]float64{
	// positive
	"gain": 1.6, "gains": 1.6, "rally": 2.0, "rallies": 2.0, "surge": 2.1,
	"surges": 2.1, "soar": 2.4, "soars": 2.4, "jump": 1.5, "jumps": 1.5,
	"rebound": 1.8, "recovery": 1.8, "recover": 1.6, "growth": 1.7,
	"profit": 1.9, "profits": 1.9, "bull": 1.5, "bullish": 2.2,
	"approval": 1.8, "approve": 1.6, "approved": 1.6, "adopt": 1.2,
	"adoption": 1.4, "upgrade": 1.5, "record": 1.2, "strong": 1.4,
	"stronger": 1.5, "optimism": 2.0, "optimistic": 2.0, "win": 1.8,
	"wins": 1.8, "support": 1.0, "ease": 1.1, "easing": 1.3, "dovish": 1.2,
	"good": 1.9, "great": 3.1, "positive": 2.3, "up": 0.8, "higher": 0.9,
	// negative
	"crash": -2.6, "crashes": -2.6, "plunge": -2.4, "plunges": -2.4,
	"dump": -1.8, "selloff": -2.0, "slump": -1.9, "drop": -1.3,
	"drops": -1.3, "decline": -1.4, "declines": -1.4, "fall": -1.2,
	"falls": -1.2, "bear": -1.5, "bearish": -2.2, "ban": -2.0,
	"banned": -2.0, "hack": -2.5, "hacked": -2.5, "fraud": -2.8,
	"lawsuit": -1.8, "charges": -1.6, "crisis": -2.4, "fear": -2.2,
	"panic": -2.6, "loss": -1.7, "losses": -1.7, "default": -1.9,
	"collapse": -2.7, "collapses": -2.7, "bankruptcy": -2.8,
	"liquidation": -2.0, "liquidations": -2.0, "weak": -1.3,
	"weaker": -1.4, "recession": -2.1, "hawkish": -1.2, "terrible": -2.1,
	"bad": -2.5, "negative": -2.3, "down": -0.8, "lower": -0.9,
	"plummet": -2.6, "plummets": -2.6, "tumble": -1.9, "tumbles": -1.9,
}
