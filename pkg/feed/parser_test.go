package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Macro Wire</title>
	<link>https://example.com</link>
	<item>
		<title>Fed cuts rates by 25 basis points</title>
		<link>https://example.com/fed-cuts</link>
		<guid>fed-cuts-2025</guid>
		<pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
		<description><![CDATA[<p>The Federal Reserve <b>lowered</b> its target range&hellip;</p>]]></description>
	</item>
	<item>
		<title>Bond yields drift lower</title>
		<link>https://example.com/yields</link>
		<description>Treasury yields edged down on Tuesday.</description>
	</item>
</channel>
</rss>`

func TestParser_Parse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MarketPulse/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/rss+xml")
		_, err := w.Write([]byte(testRSS))
		require.NoError(t, err)
	}))
	defer ts.Close()

	p := NewParser(5*time.Second, "MarketPulse/1.0")
	title, items, err := p.Parse(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "Macro Wire", title)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "fed-cuts-2025", first.ID, "guid preferred")
	assert.Equal(t, "Macro Wire", first.SourceName)
	assert.Equal(t, "Fed cuts rates by 25 basis points", first.Title)
	assert.Equal(t, "The Federal Reserve lowered its target range…", first.BodyText, "html stripped and entities decoded")
	assert.Equal(t, "https://example.com/fed-cuts", first.URL)
	assert.Equal(t, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC), first.PublishedAt.UTC())
	assert.False(t, first.FetchedAt.IsZero())

	second := items[1]
	assert.Equal(t, "https://example.com/yields", second.ID, "link fallback when guid missing")
	assert.True(t, second.PublishedAt.IsZero())
}

func TestParser_ParseErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer ts.Close()

		p := NewParser(5*time.Second, "ua")
		_, _, err := p.Parse(context.Background(), ts.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 410")
	})

	t.Run("not a feed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, err := w.Write([]byte("<html><body>not xml feed</body></html>"))
			require.NoError(t, err)
		}))
		defer ts.Close()

		p := NewParser(5*time.Second, "ua")
		_, _, err := p.Parse(context.Background(), ts.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("unreachable", func(t *testing.T) {
		p := NewParser(time.Second, "ua")
		_, _, err := p.Parse(context.Background(), "http://127.0.0.1:1/feed")
		require.Error(t, err)
	})
}

func TestEntryID_Fallbacks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>t</title>
<item><title>no guid no link</title><pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate></item>
</channel></rss>`))
		require.NoError(t, err)
	}))
	defer ts.Close()

	p := NewParser(5*time.Second, "ua")
	_, items, err := p.Parse(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Len(t, items[0].ID, 64, "sha256 hex of title and date")

	// same entry hashes to the same id
	_, again, err := p.Parse(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, items[0].ID, again[0].ID)
}
