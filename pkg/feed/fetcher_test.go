package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildmeta/marketpulse/pkg/feed/mocks"
)

// feedServer serves a minimal single-item RSS document per request
func feedServer(t *testing.T, title, body string) *httptest.Server {
	t.Helper()
	rss := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>%s</title>
<item><title>%s item</title><link>https://example.com/%s</link><guid>%s-1</guid>
<description>%s</description></item>
</channel></rss>`, title, title, title, title, body)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, err := w.Write([]byte(rss))
		require.NoError(t, err)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestFetcher_Fetch(t *testing.T) {
	alpha := feedServer(t, "alpha", "first feed body")
	beta := feedServer(t, "beta", "second feed body")

	f := NewFetcher(FetcherConfig{
		URLs:   []string{alpha.URL, beta.URL},
		Parser: NewParser(5*time.Second, "ua"),
	})

	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// configuration order regardless of which fetch finished first
	assert.Equal(t, "alpha-1", items[0].ID)
	assert.Equal(t, "beta-1", items[1].ID)
	assert.Equal(t, "feeds", f.Source())
}

func TestFetcher_PartialFailure(t *testing.T) {
	good := feedServer(t, "good", "body")

	f := NewFetcher(FetcherConfig{
		URLs:   []string{"http://127.0.0.1:1/feed", good.URL},
		Parser: NewParser(time.Second, "ua"),
	})

	items, err := f.Fetch(context.Background())
	require.NoError(t, err, "one dead feed is not an error")
	require.Len(t, items, 1)
	assert.Equal(t, "good-1", items[0].ID)
}

func TestFetcher_AllFeedsFail(t *testing.T) {
	f := NewFetcher(FetcherConfig{
		URLs:   []string{"http://127.0.0.1:1/a", "http://127.0.0.1:1/b"},
		Parser: NewParser(time.Second, "ua"),
	})

	items, err := f.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 feeds failed")
	assert.Empty(t, items)
}

func TestFetcher_EnrichesThinBodies(t *testing.T) {
	thin := feedServer(t, "thin", "short")

	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(_ context.Context, _ string) (string, error) {
			return strings.Repeat("full article text ", 20), nil
		},
	}

	f := NewFetcher(FetcherConfig{
		URLs:       []string{thin.URL},
		Parser:     NewParser(5*time.Second, "ua"),
		Extractor:  extractor,
		MinBodyLen: 100,
	})

	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Greater(t, len(items[0].BodyText), 100, "body replaced with extracted text")
	require.Len(t, extractor.ExtractCalls(), 1)
	assert.Equal(t, "https://example.com/thin", extractor.ExtractCalls()[0].URL)
}

func TestFetcher_ExtractionFailureKeepsFeedBody(t *testing.T) {
	thin := feedServer(t, "thin", "short body from feed")

	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(_ context.Context, _ string) (string, error) {
			return "", fmt.Errorf("paywalled")
		},
	}

	f := NewFetcher(FetcherConfig{
		URLs:       []string{thin.URL},
		Parser:     NewParser(5*time.Second, "ua"),
		Extractor:  extractor,
		MinBodyLen: 100,
	})

	items, err := f.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "short body from feed", items[0].BodyText)
}

func TestFetcher_LongBodySkipsExtraction(t *testing.T) {
	long := feedServer(t, "long", strings.Repeat("plenty of text ", 20))

	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(_ context.Context, _ string) (string, error) {
			return "", fmt.Errorf("must not be called")
		},
	}

	f := NewFetcher(FetcherConfig{
		URLs:       []string{long.URL},
		Parser:     NewParser(5*time.Second, "ua"),
		Extractor:  extractor,
		MinBodyLen: 100,
	})

	_, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, extractor.ExtractCalls())
}
