package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// Telegram delivers formatted payloads to a chat topic via the bot API.
// Rate limiting (429) is respected by sleeping the advertised retry-after
// before the next attempt; transport errors get exponential backoff.
type Telegram struct {
	token    string
	chatID   string
	threadID int
	apiBase  string
	client   *http.Client
}

// TelegramConfig holds delivery construction parameters
type TelegramConfig struct {
	Token    string
	ChatID   string
	ThreadID int    // message_thread_id for forum topics, 0 for none
	APIBase  string // override for tests, default https://api.telegram.org
	Timeout  time.Duration
}

// NewTelegram creates a delivery client for one chat topic
func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Telegram{
		token:    cfg.Token,
		chatID:   cfg.ChatID,
		threadID: cfg.ThreadID,
		apiBase:  cfg.APIBase,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts one message. Any non-success outcome after retries is
// returned as an error so the orchestrator leaves the item unmarked.
func (t *Telegram) Send(ctx context.Context, p domain.Payload) error {
	body := map[string]any{
		"chat_id":                  t.chatID,
		"text":                     p.Text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": p.DisablePreview,
	}
	if t.threadID != 0 {
		body["message_thread_id"] = t.threadID
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	retrier := repeater.NewBackoff(3, 500*time.Millisecond, repeater.WithMaxDelay(10*time.Second))
	return retrier.Do(ctx, func() error {
		return t.sendOnce(ctx, payload)
	})
}

// sendOnce performs one sendMessage call, handling flood control
func (t *Telegram) sendOnce(ctx context.Context, payload []byte) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiBase, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		wait := retryAfter(resp)
		lgr.Printf("[INFO] telegram rate limit hit, waiting %v", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		return fmt.Errorf("telegram rate limited")
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram api error: %s", apiResp.Description)
	}
	return nil
}

// retryAfter reads the flood-control delay from headers or response body
func retryAfter(resp *http.Response) time.Duration {
	if h := resp.Header.Get("Retry-After"); h != "" {
		if secs, err := time.ParseDuration(h + "s"); err == nil && secs > 0 {
			return secs
		}
	}

	var data struct {
		Parameters struct {
			RetryAfter int `json:"retry_after"`
		} `json:"parameters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err == nil && data.Parameters.RetryAfter > 0 {
		return time.Duration(data.Parameters.RetryAfter) * time.Second
	}
	return 3 * time.Second
}
