package sentiment

import (
	"context"
	"strings"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

//go:generate moq -out mocks/model.go -pkg mocks -skip-ensure -fmt goimports . Model

// Model is a single sentiment backend. Implementations score the text
// independently and normalize their native output to the common 0-10 scale.
type Model interface {
	Name() string
	Score(ctx context.Context, text string) (domain.ModelResult, error)
}

// label score cut lines on the 0-10 scale: negative < ThresholdNeutral,
// neutral < ThresholdPositive, positive otherwise
const (
	ThresholdNeutral  = 4.0
	ThresholdPositive = 6.5
)

// LabelForScore derives the verdict label from a 0-10 score
func LabelForScore(score float64) domain.SentimentLabel {
	switch {
	case score < ThresholdNeutral:
		return domain.SentimentNegative
	case score < ThresholdPositive:
		return domain.SentimentNeutral
	default:
		return domain.SentimentPositive
	}
}

// normalize maps a signed polarity in [-1,1] to the common 0-10 scale
func normalize(polarity float64) float64 {
	return (polarity + 1) * 5
}

// polarity converts a label plus confidence in [0,1] to a signed value in [-1,1]
func polarity(label domain.SentimentLabel, confidence float64) float64 {
	switch label {
	case domain.SentimentPositive:
		return confidence
	case domain.SentimentNegative:
		return -confidence
	default:
		return 0
	}
}

// parseLabel maps model-native label strings (finbert "positive", roberta
// "LABEL_2", llm free text) to a sentiment label
func parseLabel(s string) domain.SentimentLabel {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "pos"), strings.Contains(l, "2"):
		return domain.SentimentPositive
	case strings.Contains(l, "neg"), strings.Contains(l, "0"):
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
