package timeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timelineHTML = `<!DOCTYPE html>
<html><body>
<div class="timeline">
	<div class="timeline-item">
		<a class="tweet-link" href="/trader/status/1001#m"></a>
		<div class="tweet-body">
			<div class="tweet-content">HL perps volume at all time high</div>
			<span class="tweet-date"><a href="/trader/status/1001#m" title="Jun 2, 2025 · 3:04 PM UTC">Jun 2</a></span>
			<div class="tweet-stats">
				<span class="tweet-stat"><div class="icon-container"><span class="icon-comment"></span> 12</div></span>
				<span class="tweet-stat"><div class="icon-container"><span class="icon-retweet"></span> 345</div></span>
				<span class="tweet-stat"><div class="icon-container"><span class="icon-heart"></span> 1,670</div></span>
			</div>
		</div>
	</div>
	<div class="timeline-item">
		<div class="retweet-header">pinned</div>
	</div>
	<div class="timeline-item">
		<a class="tweet-link" href="/trader/status/1002#m"></a>
		<div class="tweet-body">
			<div class="tweet-content">quiet session, watching funding rates</div>
			<span class="tweet-date"><a href="/trader/status/1002#m" title="Jun 2, 2025 · 1:30 PM UTC">Jun 2</a></span>
		</div>
	</div>
	<div class="timeline-item">
		<a class="tweet-link" href="/trader/status/1003#m"></a>
		<div class="tweet-body">
			<div class="tweet-content">third post</div>
		</div>
	</div>
</div>
</body></html>`

func TestScraper_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trader", r.URL.Path)
		_, err := w.Write([]byte(timelineHTML))
		require.NoError(t, err)
	}))
	defer ts.Close()

	s := NewScraper(Config{Username: "trader", Instances: []string{ts.URL}})
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3, "header-only entries skipped")

	first := items[0]
	assert.Equal(t, "1001", first.ID)
	assert.Equal(t, "@trader", first.SourceName)
	assert.Equal(t, "HL perps volume at all time high", first.BodyText)
	assert.Equal(t, "https://x.com/trader/status/1001", first.URL)
	assert.Equal(t, time.Date(2025, 6, 2, 15, 4, 0, 0, time.UTC), first.PublishedAt.UTC())
	require.NotNil(t, first.Engagement)
	assert.Equal(t, 12, first.Engagement.Replies)
	assert.Equal(t, 345, first.Engagement.Reposts)
	assert.Equal(t, 1670, first.Engagement.Likes)

	assert.Equal(t, "1003", items[2].ID)
	assert.True(t, items[2].PublishedAt.IsZero(), "missing date tolerated")
	assert.Nil(t, items[2].Engagement, "no stats rendered for this post")

	assert.Equal(t, "timeline", s.Source())
}

func TestScraper_MaxPosts(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(timelineHTML))
		require.NoError(t, err)
	}))
	defer ts.Close()

	s := NewScraper(Config{Username: "trader", Instances: []string{ts.URL}, MaxPosts: 2})
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestScraper_InstanceFailover(t *testing.T) {
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(timelineHTML))
		require.NoError(t, err)
	}))
	defer working.Close()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer broken.Close()

	s := NewScraper(Config{Username: "trader", Instances: []string{broken.URL, working.URL}})
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3, "second mirror served the timeline")
}

func TestScraper_AllInstancesFail(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer broken.Close()

	s := NewScraper(Config{Username: "trader", Instances: []string{broken.URL, "http://127.0.0.1:1"}})
	items, err := s.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all nitter instances failed")
	assert.Empty(t, items)
}

func TestScraper_EmptyTimeline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`<html><body><div class="timeline"></div></body></html>`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	s := NewScraper(Config{Username: "trader", Instances: []string{ts.URL}})
	items, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}
