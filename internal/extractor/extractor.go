// Package extractor implements the tiered content-acquisition policy.
// Tiers are an ordered list of strategies; the first one producing usable
// text wins and is recorded on the result.
package extractor

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/autodigest/rss-digest/internal/fetcher"
)

// Tier identifies one strategy in the fallback chain.
type Tier string

const (
	TierLLMDirect Tier = "llm_direct"
	TierReader    Tier = "reader"
	TierRSS       Tier = "rss"
	// TierFailed marks articles for which no tier produced text.
	TierFailed Tier = "failed"
)

// AllTiers lists every tier that can appear on a result, in reporting
// order.
func AllTiers() []Tier {
	return []Tier{TierLLMDirect, TierReader, TierRSS, TierFailed}
}

// Result is the outcome of running the chain for one article.
// Body is empty exactly when Tier is TierFailed.
type Result struct {
	Article fetcher.Article
	Body    string
	Tier    Tier
}

// Failed reports whether no tier produced usable text.
func (r Result) Failed() bool { return r.Tier == TierFailed }

// Outcome is the tagged result of a single strategy attempt.
type Outcome struct {
	text       string
	skipReason string
	ok         bool
}

// Success marks an attempt that produced usable text.
func Success(text string) Outcome { return Outcome{text: text, ok: true} }

// SkipToNext marks an attempt that failed and defers to the next tier.
func SkipToNext(reason string) Outcome { return Outcome{skipReason: reason} }

// Strategy is one tier of the fallback chain.
type Strategy interface {
	Tier() Tier
	Extract(ctx context.Context, article fetcher.Article) Outcome
}

// Chain runs strategies strictly in order.
type Chain struct {
	strategies []Strategy
	log        *slog.Logger
}

func NewChain(strategies []Strategy, log *slog.Logger) *Chain {
	return &Chain{strategies: strategies, log: log}
}

// Extract tries each tier in order and returns the first success. If
// every tier skips, the result carries TierFailed and an empty body; the
// article still continues through the pipeline.
func (c *Chain) Extract(ctx context.Context, article fetcher.Article) Result {
	for _, s := range c.strategies {
		outcome := s.Extract(ctx, article)
		if outcome.ok {
			c.log.Debug("extraction succeeded",
				slog.String("tier", string(s.Tier())),
				slog.String("link", article.Link),
			)
			return Result{Article: article, Body: outcome.text, Tier: s.Tier()}
		}
		c.log.Debug("extraction tier skipped",
			slog.String("tier", string(s.Tier())),
			slog.String("link", article.Link),
			slog.String("reason", outcome.skipReason),
		)
	}

	c.log.Warn("all extraction tiers failed", slog.String("link", article.Link))
	return Result{Article: article, Tier: TierFailed}
}

// placeholderMarkers flag error or interstitial pages that made it back
// as "content".
var placeholderMarkers = []string{
	"404 not found",
	"access denied",
	"just a moment",
	"enable javascript",
	"unable to access",
	"cannot access",
	"无法访问",
}

// usable reports whether text is worth summarizing: non-empty after
// trimming, at least minRunes long, and not an error/placeholder page.
func usable(text string, minRunes int) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if utf8.RuneCountInString(trimmed) < minRunes {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
