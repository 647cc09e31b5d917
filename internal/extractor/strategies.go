package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/autodigest/rss-digest/internal/fetcher"
	"github.com/autodigest/rss-digest/internal/llm"
	"github.com/autodigest/rss-digest/internal/reader"
)

const directReadPrompt = `Read the article at the URL below and return its main body text as plain text.
Return ONLY the article content. Do not summarize, comment, or translate.
If you cannot access the page, reply with exactly: CANNOT_ACCESS`

// LLMDirectStrategy asks a browsing-capable model backend to read the
// page itself. Backends without browsing make this tier a no-op.
type LLMDirectStrategy struct {
	client   llm.Client
	minRunes int
}

var _ Strategy = (*LLMDirectStrategy)(nil)

func NewLLMDirectStrategy(client llm.Client, minRunes int) *LLMDirectStrategy {
	return &LLMDirectStrategy{client: client, minRunes: minRunes}
}

func (s *LLMDirectStrategy) Tier() Tier { return TierLLMDirect }

func (s *LLMDirectStrategy) Extract(ctx context.Context, article fetcher.Article) Outcome {
	text, err := s.client.CompleteFromURL(ctx, directReadPrompt, article.Link)
	if err != nil {
		return SkipToNext(err.Error())
	}
	if strings.Contains(text, "CANNOT_ACCESS") {
		return SkipToNext("backend reported no access")
	}
	if !usable(text, s.minRunes) {
		return SkipToNext("text not usable")
	}
	return Success(text)
}

// ReaderStrategy calls the configured reader service.
type ReaderStrategy struct {
	service  reader.Service
	minRunes int
}

var _ Strategy = (*ReaderStrategy)(nil)

func NewReaderStrategy(service reader.Service, minRunes int) *ReaderStrategy {
	return &ReaderStrategy{service: service, minRunes: minRunes}
}

func (s *ReaderStrategy) Tier() Tier { return TierReader }

func (s *ReaderStrategy) Extract(ctx context.Context, article fetcher.Article) Outcome {
	text, err := s.service.Extract(ctx, article.Link)
	if err != nil {
		return SkipToNext(err.Error())
	}
	if !usable(text, s.minRunes) {
		return SkipToNext("text not usable")
	}
	return Success(text)
}

// RSSStrategy is the terminal tier: whatever snippet the feed entry
// already carried. Any non-empty snippet counts, however short.
type RSSStrategy struct{}

var _ Strategy = (*RSSStrategy)(nil)

func NewRSSStrategy() *RSSStrategy { return &RSSStrategy{} }

func (s *RSSStrategy) Tier() Tier { return TierRSS }

func (s *RSSStrategy) Extract(_ context.Context, article fetcher.Article) Outcome {
	if strings.TrimSpace(article.Summary) == "" {
		return SkipToNext("entry has no summary")
	}
	return Success(article.Summary)
}

// BuildStrategies maps configured tier names to strategies, preserving
// order, so enabling, disabling, or reordering tiers is a config change.
func BuildStrategies(tiers []string, client llm.Client, service reader.Service, minRunes int) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(tiers))
	for _, name := range tiers {
		switch name {
		case "llm_direct":
			strategies = append(strategies, NewLLMDirectStrategy(client, minRunes))
		case "reader":
			strategies = append(strategies, NewReaderStrategy(service, minRunes))
		case "rss":
			strategies = append(strategies, NewRSSStrategy())
		default:
			return nil, fmt.Errorf("extractor: unknown tier %q", name)
		}
	}
	return strategies, nil
}
