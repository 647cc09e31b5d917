// Package runner orchestrates one digest run: subscriptions -> fetch ->
// per-article extract+summarize -> aggregate -> render.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/autodigest/rss-digest/internal/digest"
	"github.com/autodigest/rss-digest/internal/extractor"
	"github.com/autodigest/rss-digest/internal/fetcher"
	"github.com/autodigest/rss-digest/internal/report"
	"github.com/autodigest/rss-digest/internal/subscription"
	"github.com/autodigest/rss-digest/internal/summarizer"
)

// Extractor runs the tier chain for one article.
type Extractor interface {
	Extract(ctx context.Context, article fetcher.Article) extractor.Result
}

// Summarizer produces the digest entry for one extraction result.
type Summarizer interface {
	Summarize(ctx context.Context, res extractor.Result) summarizer.Summary
}

// Options wires the pipeline stages into a Runner.
type Options struct {
	LoadFeeds        func() ([]subscription.Feed, error)
	Fetcher          fetcher.Fetcher
	Extractor        Extractor
	Summarizer       Summarizer
	Renderer         *report.Renderer
	Writer           report.Writer
	CategoryPriority []string
	Workers          int
	Logger           *slog.Logger
}

// Runner executes the full pipeline. A run succeeds even when individual
// articles degrade; it fails only when the subscription list cannot be
// loaded, no feeds are configured, or the report cannot be written.
type Runner struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Runner{opts: opts, now: time.Now}
}

// Run executes the pipeline once.
func (r *Runner) Run(ctx context.Context) error {
	log := r.opts.Logger
	date := r.now()

	log.Info("loading subscriptions")
	feeds, err := r.opts.LoadFeeds()
	if err != nil {
		return fmt.Errorf("runner: failed to load subscriptions: %w", err)
	}
	if len(feeds) == 0 {
		return fmt.Errorf("runner: subscription list contains no feeds")
	}
	log.Info("subscriptions loaded",
		slog.Int("feeds", len(feeds)),
		slog.Int("categories", len(subscription.Categories(feeds))),
	)

	log.Info("fetching articles")
	articles := r.opts.Fetcher.Fetch(ctx, feeds)
	log.Info("articles fetched", slog.Int("count", len(articles)))

	if len(articles) == 0 {
		log.Info("no recent articles, writing empty report")
		return r.publish(date, r.opts.Renderer.RenderEmpty(date))
	}

	summaries := r.processArticles(ctx, articles)

	batch := digest.Aggregate(date, summaries, r.opts.CategoryPriority)
	log.Info("batch aggregated",
		slog.Int("total", batch.Stats.Total),
		slog.Int("llm_direct", batch.Stats.ByTier[extractor.TierLLMDirect]),
		slog.Int("reader", batch.Stats.ByTier[extractor.TierReader]),
		slog.Int("rss", batch.Stats.ByTier[extractor.TierRSS]),
		slog.Int("failed", batch.Stats.ByTier[extractor.TierFailed]),
	)

	return r.publish(date, r.opts.Renderer.Render(batch))
}

// processArticles runs extraction and summarization for every article on
// a bounded worker pool. Results keep the input order so aggregation is
// deterministic; one article's failure never touches another's.
func (r *Runner) processArticles(ctx context.Context, articles []fetcher.Article) []summarizer.Summary {
	summaries := make([]summarizer.Summary, len(articles))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res := r.opts.Extractor.Extract(ctx, articles[i])
				summaries[i] = r.opts.Summarizer.Summarize(ctx, res)
			}
		}()
	}

	for i := range articles {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return summaries
}

func (r *Runner) publish(date time.Time, content string) error {
	path, err := r.opts.Writer.Write(date, content)
	if err != nil {
		return fmt.Errorf("runner: render failed: %w", err)
	}
	if err := r.opts.Writer.UpdateLatest(path, content); err != nil {
		return fmt.Errorf("runner: failed to update latest pointer: %w", err)
	}
	r.opts.Logger.Info("digest published", slog.String("path", path))
	return nil
}
