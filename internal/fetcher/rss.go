package fetcher

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/autodigest/rss-digest/internal/subscription"
)

const maxSummaryRunes = 500

// RSSFetcher fetches articles over HTTP with gofeed, one bounded attempt
// per feed.
type RSSFetcher struct {
	window      time.Duration
	feedTimeout time.Duration
	log         *slog.Logger
	now         func() time.Time
}

var _ Fetcher = (*RSSFetcher)(nil)

func NewRSSFetcher(windowHours int, log *slog.Logger) *RSSFetcher {
	return &RSSFetcher{
		window:      time.Duration(windowHours) * time.Hour,
		feedTimeout: 30 * time.Second,
		log:         log,
		now:         time.Now,
	}
}

// Fetch retrieves entries from every feed, filters them to the configured
// time window, and deduplicates by link across feeds (first occurrence
// wins). A feed that times out or fails to parse contributes nothing and
// does not abort the batch.
func (f *RSSFetcher) Fetch(ctx context.Context, feeds []subscription.Feed) []Article {
	seen := make(map[string]bool)
	var articles []Article

	for _, feed := range feeds {
		entries, err := f.fetchFeed(ctx, feed)
		if err != nil {
			f.log.Warn("feed fetch failed",
				slog.String("feed", feed.Title),
				slog.String("url", feed.URL),
				slog.Any("error", err),
			)
			continue
		}

		recent := 0
		for _, a := range entries {
			if seen[a.Link] {
				continue
			}
			seen[a.Link] = true
			articles = append(articles, a)
			recent++
		}
		f.log.Info("feed fetched",
			slog.String("feed", feed.Title),
			slog.Int("recent", recent),
		)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].Published.After(articles[j].Published)
	})
	return articles
}

func (f *RSSFetcher) fetchFeed(ctx context.Context, feed subscription.Feed) ([]Article, error) {
	fctx, cancel := context.WithTimeout(ctx, f.feedTimeout)
	defer cancel()

	parsed, err := gofeed.NewParser().ParseURLWithContext(feed.URL, fctx)
	if err != nil {
		return nil, err
	}

	now := f.now()
	cutoff := now.Add(-f.window)

	var articles []Article
	for _, item := range parsed.Items {
		a, ok := f.parseItem(item, feed, now)
		if !ok {
			continue
		}
		if a.Published.Before(cutoff) {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func (f *RSSFetcher) parseItem(item *gofeed.Item, feed subscription.Feed, now time.Time) (Article, bool) {
	if item.Link == "" {
		return Article{}, false
	}

	published := itemDate(item)
	if published.IsZero() {
		// Undated entries cannot be placed in the window; treating them
		// as new would resurface stale items on every run.
		return Article{}, false
	}
	if published.After(now.Add(24 * time.Hour)) {
		return Article{}, false
	}
	if published.Before(now.AddDate(-1, 0, 0)) {
		return Article{}, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Untitled"
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	return Article{
		Title:     title,
		Link:      item.Link,
		Source:    feed.Title,
		Domain:    linkDomain(item.Link),
		Published: published,
		Summary:   truncateRunes(StripHTML(summary), maxSummaryRunes),
		Category:  feed.Category,
	}, true
}

func itemDate(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func linkDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

var whitespaceRegex = regexp.MustCompile(`\s+`)

// StripHTML reduces an HTML fragment to its visible text with normalized
// whitespace.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(doc.Text()), " ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
