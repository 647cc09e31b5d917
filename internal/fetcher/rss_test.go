package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodigest/rss-digest/internal/subscription"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func rssDocument(items ...string) string {
	doc := `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>Test Feed</title>`
	for _, item := range items {
		doc += item
	}
	return doc + `</channel></rss>`
}

func rssItem(title, link string, published time.Time, description string) string {
	return fmt.Sprintf(
		`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>%s</description></item>`,
		title, link, published.Format(time.RFC1123Z), description,
	)
}

func newTestFetcher() *RSSFetcher {
	f := NewRSSFetcher(24, slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.now = func() time.Time { return testNow }
	return f
}

func serveRSS(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, doc)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchRecentArticles(t *testing.T) {
	server := serveRSS(t, rssDocument(
		rssItem("Fresh", "https://example.com/fresh", testNow.Add(-2*time.Hour), "recent article"),
		rssItem("Stale", "https://example.com/stale", testNow.Add(-48*time.Hour), "outside window"),
		rssItem("Future", "https://example.com/future", testNow.Add(72*time.Hour), "bad date"),
		rssItem("Ancient", "https://example.com/old", testNow.AddDate(-2, 0, 0), "default date"),
	))

	f := newTestFetcher()
	articles := f.Fetch(context.Background(), []subscription.Feed{
		{Title: "Test Feed", URL: server.URL, Category: "科技"},
	})

	require.Len(t, articles, 1)
	assert.Equal(t, "Fresh", articles[0].Title)
	assert.Equal(t, "https://example.com/fresh", articles[0].Link)
	assert.Equal(t, "example.com", articles[0].Domain)
	assert.Equal(t, "Test Feed", articles[0].Source)
	assert.Equal(t, "科技", articles[0].Category)
	assert.Equal(t, "recent article", articles[0].Summary)
}

func TestFetchDeduplicatesAcrossFeeds(t *testing.T) {
	doc := rssDocument(rssItem("Shared", "https://example.com/shared", testNow.Add(-time.Hour), "body"))
	serverA := serveRSS(t, doc)
	serverB := serveRSS(t, doc)

	f := newTestFetcher()
	articles := f.Fetch(context.Background(), []subscription.Feed{
		{Title: "Feed A", URL: serverA.URL, Category: "科技"},
		{Title: "Feed B", URL: serverB.URL, Category: "财经"},
	})

	require.Len(t, articles, 1)
	// Category of the first occurrence wins.
	assert.Equal(t, "科技", articles[0].Category)
	assert.Equal(t, "Feed A", articles[0].Source)
}

func TestFetchFailedFeedDoesNotAbortBatch(t *testing.T) {
	good := serveRSS(t, rssDocument(
		rssItem("OK", "https://example.com/ok", testNow.Add(-time.Hour), "body"),
	))
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	f := newTestFetcher()
	articles := f.Fetch(context.Background(), []subscription.Feed{
		{Title: "Broken", URL: broken.URL, Category: "科技"},
		{Title: "Good", URL: good.URL, Category: "科技"},
	})

	require.Len(t, articles, 1)
	assert.Equal(t, "OK", articles[0].Title)
}

func TestFetchTimedOutFeedAmongFive(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	t.Cleanup(slow.Close)

	feeds := []subscription.Feed{{Title: "Slow", URL: slow.URL, Category: "科技"}}
	for i := 0; i < 4; i++ {
		doc := rssDocument(rssItem(
			fmt.Sprintf("Article %d", i),
			fmt.Sprintf("https://example.com/%d", i),
			testNow.Add(-time.Hour),
			"body",
		))
		feeds = append(feeds, subscription.Feed{
			Title:    fmt.Sprintf("Feed %d", i),
			URL:      serveRSS(t, doc).URL,
			Category: "科技",
		})
	}

	f := newTestFetcher()
	f.feedTimeout = 100 * time.Millisecond
	articles := f.Fetch(context.Background(), feeds)

	assert.Len(t, articles, 4)
}

func TestFetchSortsNewestFirst(t *testing.T) {
	server := serveRSS(t, rssDocument(
		rssItem("Older", "https://example.com/1", testNow.Add(-5*time.Hour), ""),
		rssItem("Newer", "https://example.com/2", testNow.Add(-time.Hour), ""),
	))

	f := newTestFetcher()
	articles := f.Fetch(context.Background(), []subscription.Feed{
		{Title: "Feed", URL: server.URL, Category: "科技"},
	})

	require.Len(t, articles, 2)
	assert.Equal(t, "Newer", articles[0].Title)
	assert.Equal(t, "Older", articles[1].Title)
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"tags removed", "<p>hello <b>world</b></p>", "hello world"},
		{"whitespace collapsed", "  hello\n\n  world ", "hello world"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}
