package timeline

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"

	"github.com/wildmeta/marketpulse/pkg/domain"
)

// nitterTimeLayout matches the title attribute on nitter post dates
const nitterTimeLayout = "Jan 2, 2006 · 3:04 PM MST"

var statusIDRe = regexp.MustCompile(`/status/(\d+)`)

// Scraper is the timeline ingestion collaborator: it reads a public X
// account through Nitter mirror instances, failing over between them.
type Scraper struct {
	username  string
	instances []string
	maxPosts  int
	client    *http.Client
	userAgent string
}

// Config holds scraper construction parameters
type Config struct {
	Username  string   // account to follow, without the @
	Instances []string // nitter mirror base URLs, tried in order
	MaxPosts  int      // posts read per cycle
	Timeout   time.Duration
	UserAgent string
}

// NewScraper creates a timeline scraper
func NewScraper(cfg Config) *Scraper {
	if cfg.MaxPosts == 0 {
		cfg.MaxPosts = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	return &Scraper{
		username:  cfg.Username,
		instances: cfg.Instances,
		maxPosts:  cfg.MaxPosts,
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
	}
}

// Source identifies this collaborator in summaries and seen records
func (s *Scraper) Source() string { return "timeline" }

// Fetch returns the latest posts from the first mirror that responds.
// All mirrors failing is reported as an error; the orchestrator treats it
// as an empty cycle.
func (s *Scraper) Fetch(ctx context.Context) ([]domain.ContentItem, error) {
	var lastErr error
	for _, instance := range s.instances {
		items, err := s.fetchInstance(ctx, instance)
		if err != nil {
			lgr.Printf("[WARN] nitter instance %s failed: %v", instance, err)
			lastErr = err
			continue
		}
		if len(items) > 0 {
			return items, nil
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all nitter instances failed: %w", lastErr)
	}
	return nil, nil
}

// fetchInstance scrapes the timeline page of a single mirror
func (s *Scraper) fetchInstance(ctx context.Context, instance string) ([]domain.ContentItem, error) {
	url := strings.TrimSuffix(instance, "/") + "/" + s.username
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse timeline html: %w", err)
	}

	now := time.Now()
	var items []domain.ContentItem
	doc.Find(".timeline-item").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(items) >= s.maxPosts {
			return false
		}

		href, _ := sel.Find("a.tweet-link").Attr("href")
		m := statusIDRe.FindStringSubmatch(href)
		if m == nil {
			return true // retweet headers and such, skip
		}
		postID := m[1]

		item := domain.ContentItem{
			ID:         postID,
			SourceName: "@" + s.username,
			BodyText:   strings.TrimSpace(sel.Find(".tweet-content").Text()),
			URL:        fmt.Sprintf("https://x.com/%s/status/%s", s.username, postID),
			FetchedAt:  now,
		}

		if title, ok := sel.Find(".tweet-date a").Attr("title"); ok {
			if ts, err := time.Parse(nitterTimeLayout, title); err == nil {
				item.PublishedAt = ts
			}
		}

		item.Engagement = parseStats(sel)

		items = append(items, item)
		return true
	})

	return items, nil
}

// parseStats reads the interaction counters of a timeline item, nil when
// the mirror renders none
func parseStats(sel *goquery.Selection) *domain.Engagement {
	var eng domain.Engagement
	found := false
	sel.Find(".tweet-stats .tweet-stat").Each(func(_ int, stat *goquery.Selection) {
		n := parseCount(stat.Text())
		switch {
		case stat.Find(".icon-comment").Length() > 0:
			eng.Replies, found = n, true
		case stat.Find(".icon-retweet").Length() > 0:
			eng.Reposts, found = n, true
		case stat.Find(".icon-heart").Length() > 0:
			eng.Likes, found = n, true
		}
	})
	if !found {
		return nil
	}
	return &eng
}

// parseCount converts a counter like "1,234" to an int, 0 on anything else
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
