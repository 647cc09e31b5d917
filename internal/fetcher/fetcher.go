package fetcher

import (
	"context"
	"time"

	"github.com/autodigest/rss-digest/internal/subscription"
)

// Article is a single feed entry normalized for the pipeline.
type Article struct {
	Title     string
	Link      string
	Source    string // feed title
	Domain    string // host of Link
	Published time.Time
	Summary   string // cleaned RSS description, may be empty
	Category  string
}

// Fetcher retrieves recent articles from a set of subscribed feeds.
// Per-feed failures are tolerated and logged; the returned slice contains
// whatever the reachable feeds produced.
type Fetcher interface {
	Fetch(ctx context.Context, feeds []subscription.Feed) []Article
}
