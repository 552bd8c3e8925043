package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildmeta/marketpulse/pkg/domain"
	"github.com/wildmeta/marketpulse/server/mocks"
)

func testConfig() *mocks.ConfigProviderMock {
	return &mocks.ConfigProviderMock{
		GetServerConfigFunc: func() (string, time.Duration) { return "127.0.0.1:0", 5 * time.Second },
	}
}

func TestServer_Ping(t *testing.T) {
	srv := New(testConfig(), nil, "test-rev", false)

	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServer_Status(t *testing.T) {
	completed := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	active := &mocks.SummaryProviderMock{
		SourceFunc: func() string { return "feeds" },
		LastSummaryFunc: func() (domain.CycleSummary, bool) {
			return domain.CycleSummary{
				Source:      "feeds",
				Fetched:     10,
				FilteredOut: 4,
				Duplicate:   3,
				Delivered:   2,
				Failed:      1,
				CompletedAt: completed,
			}, true
		},
	}
	pending := &mocks.SummaryProviderMock{
		SourceFunc:      func() string { return "timeline" },
		LastSummaryFunc: func() (domain.CycleSummary, bool) { return domain.CycleSummary{}, false },
	}

	srv := New(testConfig(), []SummaryProvider{active, pending}, "test-rev", false)

	req := httptest.NewRequest(http.MethodGet, "/status", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Sources map[string]struct {
			LastCycle *domain.CycleSummary `json:"last_cycle"`
			Pending   bool                 `json:"pending"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test-rev", body.Version)
	require.Len(t, body.Sources, 2)

	feeds := body.Sources["feeds"]
	require.NotNil(t, feeds.LastCycle)
	assert.False(t, feeds.Pending)
	assert.Equal(t, 10, feeds.LastCycle.Fetched)
	assert.Equal(t, 2, feeds.LastCycle.Delivered)
	assert.Equal(t, completed, feeds.LastCycle.CompletedAt)

	timeline := body.Sources["timeline"]
	assert.Nil(t, timeline.LastCycle)
	assert.True(t, timeline.Pending)
}

func TestServer_AppInfoHeader(t *testing.T) {
	srv := New(testConfig(), nil, "v1.2.3", false)

	req := httptest.NewRequest(http.MethodGet, "/status", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, "marketpulse", rec.Header().Get("App-Name"))
	assert.Equal(t, "v1.2.3", rec.Header().Get("App-Version"))
}

func TestServer_NotFound(t *testing.T) {
	srv := New(testConfig(), nil, "rev", false)

	req := httptest.NewRequest(http.MethodGet, "/nope", http.NoBody)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
