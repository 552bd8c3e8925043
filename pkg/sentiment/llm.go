package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// LLM scores text with an OpenAI-compatible chat model. It stands in for
// the social-text transformer and works against any compatible endpoint
// (OpenAI, local llama.cpp, etc).
type LLM struct {
	client *openai.Client
	model  string
}

// LLMConfig holds construction parameters for the LLM sentiment model
type LLMConfig struct {
	Endpoint string // OpenAI-compatible API endpoint, empty for api.openai.com
	APIKey   string
	Model    string
}

const llmSystemPrompt = `You are a sentiment rater for market and crypto news.
Rate the sentiment of the given text and respond with a single JSON object:
{"label": "positive"|"neutral"|"negative", "confidence": 0.0-1.0}
Respond with the JSON object only, no other text.`

// NewLLM creates an LLM-backed sentiment model
func NewLLM(cfg LLMConfig) *LLM {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &LLM{client: openai.NewClientWithConfig(clientConfig), model: cfg.Model}
}

// Name returns the model name used in per-model results
func (l *LLM) Name() string { return "llm" }

// Score asks the chat model for a label and confidence. Temperature is
// pinned to zero; malformed JSON gets one re-ask before failing.
func (l *LLM) Score(ctx context.Context, text string) (domain.ModelResult, error) {
	if len(text) > maxModelInput {
		text = text[:maxModelInput]
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		resp, err := l.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       l.model,
			Temperature: 0,
			MaxTokens:   50,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
		})
		if err != nil {
			return domain.ModelResult{}, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return domain.ModelResult{}, fmt.Errorf("no response from llm")
		}

		result, err := l.parseResponse(resp.Choices[0].Message.Content)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return domain.ModelResult{}, fmt.Errorf("failed after 2 attempts: %w", lastErr)
}

// parseResponse extracts the JSON object from the model output
func (l *LLM) parseResponse(content string) (domain.ModelResult, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return domain.ModelResult{}, fmt.Errorf("no json object found in response")
	}

	var parsed struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return domain.ModelResult{}, fmt.Errorf("failed to parse json: %w", err)
	}

	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}

	label := parseLabel(parsed.Label)
	return domain.ModelResult{
		Label: label,
		Raw:   parsed.Confidence,
		Score: normalize(polarity(label, parsed.Confidence)),
	}, nil
}
