package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

func TestLabelForScore(t *testing.T) {
	tests := []struct {
		score float64
		label domain.SentimentLabel
	}{
		{0, domain.SentimentNegative},
		{3.99, domain.SentimentNegative},
		{4.0, domain.SentimentNeutral},
		{5.0, domain.SentimentNeutral},
		{6.49, domain.SentimentNeutral},
		{6.5, domain.SentimentPositive},
		{10, domain.SentimentPositive},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.label, LabelForScore(tt.score), "score %v", tt.score)
	}
}

func TestNormalize(t *testing.T) {
	assert.InDelta(t, 0.0, normalize(-1), 0.0001)
	assert.InDelta(t, 5.0, normalize(0), 0.0001)
	assert.InDelta(t, 10.0, normalize(1), 0.0001)
}

func TestPolarity(t *testing.T) {
	assert.InDelta(t, 0.8, polarity(domain.SentimentPositive, 0.8), 0.0001)
	assert.InDelta(t, -0.8, polarity(domain.SentimentNegative, 0.8), 0.0001)
	assert.InDelta(t, 0.0, polarity(domain.SentimentNeutral, 0.8), 0.0001)
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in  string
		out domain.SentimentLabel
	}{
		{"positive", domain.SentimentPositive},
		{"POSITIVE", domain.SentimentPositive},
		{"LABEL_2", domain.SentimentPositive},
		{"negative", domain.SentimentNegative},
		{"LABEL_0", domain.SentimentNegative},
		{"neutral", domain.SentimentNeutral},
		{"LABEL_1", domain.SentimentNeutral},
		{"whatever", domain.SentimentNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, parseLabel(tt.in), "label %q", tt.in)
	}
}
