package feed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// Parser fetches and parses one RSS/Atom feed into content items
type Parser struct {
	client    *http.Client
	userAgent string
	sanitizer *bluemonday.Policy
}

// NewParser creates a feed parser with the given fetch timeout
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Parse fetches the feed URL and converts entries to content items.
// Descriptions arrive as HTML from many publishers, so they are stripped
// to plain text before anything downstream sees them.
func (p *Parser) Parse(ctx context.Context, url string) (title string, items []domain.ContentItem, err error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return "", nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parsed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return "", nil, fmt.Errorf("parse feed: %w", err)
	}

	title = parsed.Title
	if title == "" {
		title = url
	}

	now := time.Now()
	items = make([]domain.ContentItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		item := domain.ContentItem{
			ID:         entryID(entry),
			SourceName: title,
			Title:      entry.Title,
			BodyText:   p.plainText(entry),
			URL:        entry.Link,
			FetchedAt:  now,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			item.PublishedAt = *entry.UpdatedParsed
		}
		items = append(items, item)
	}

	return title, items, nil
}

// plainText strips markup from the richest text the entry carries
func (p *Parser) plainText(entry *gofeed.Item) string {
	raw := entry.Content
	if raw == "" {
		raw = entry.Description
	}
	text := p.sanitizer.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(text))
}

// entryID derives a stable identifier: GUID, then link, then a hash of
// title and publication date for feeds that provide neither
func entryID(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	if entry.Link != "" {
		return entry.Link
	}
	sum := sha256.Sum256([]byte(entry.Title + "|" + entry.Published))
	return hex.EncodeToString(sum[:])
}

// fetch retrieves feed content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,*/*;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
