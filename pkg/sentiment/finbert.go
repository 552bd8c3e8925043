package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// maxModelInput bounds the text sent to remote models, matching the
// truncation the transformer tokenizers apply anyway
const maxModelInput = 1200

// FinBERT scores text with a finance-domain transformer served by a
// HuggingFace text-classification inference endpoint.
type FinBERT struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// FinBERTConfig holds construction parameters for the finance model
type FinBERTConfig struct {
	Endpoint string // inference endpoint URL, e.g. .../models/ProsusAI/finbert
	APIKey   string
	Timeout  time.Duration
}

// NewFinBERT creates a finance sentiment model client
func NewFinBERT(cfg FinBERTConfig) *FinBERT {
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &FinBERT{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the model name used in per-model results
func (f *FinBERT) Name() string { return "finbert" }

// Score sends the text to the inference endpoint and normalizes the top
// classification to the common 0-10 scale
func (f *FinBERT) Score(ctx context.Context, text string) (domain.ModelResult, error) {
	if len(text) > maxModelInput {
		text = text[:maxModelInput]
	}

	reqBody, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return domain.ModelResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return domain.ModelResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.ModelResult{}, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.ModelResult{}, fmt.Errorf("inference status %d: %s", resp.StatusCode, string(body))
	}

	// response is a nested array of {label, score} candidates per input
	var candidates [][]struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return domain.ModelResult{}, fmt.Errorf("decode response: %w", err)
	}
	if len(candidates) == 0 || len(candidates[0]) == 0 {
		return domain.ModelResult{}, fmt.Errorf("empty inference response")
	}

	// pick the highest-confidence candidate
	top := candidates[0][0]
	for _, c := range candidates[0][1:] {
		if c.Score > top.Score {
			top = c
		}
	}

	label := parseLabel(top.Label)
	return domain.ModelResult{
		Label: label,
		Raw:   top.Score,
		Score: normalize(polarity(label, top.Score)),
	}, nil
}
