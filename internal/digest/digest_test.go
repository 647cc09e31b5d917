package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodigest/rss-digest/internal/extractor"
	"github.com/autodigest/rss-digest/internal/fetcher"
	"github.com/autodigest/rss-digest/internal/summarizer"
)

var testDate = time.Date(2026, 8, 30, 7, 0, 0, 0, time.UTC)

func makeSummary(title, category string, tier extractor.Tier) summarizer.Summary {
	return summarizer.Summary{
		Article: fetcher.Article{
			Title:    title,
			Link:     "https://example.com/" + title,
			Category: category,
		},
		CoreViewpoint: "观点：" + title,
		KeyPoints:     []string{"要点"},
		Tier:          tier,
		Succeeded:     tier != extractor.TierFailed,
	}
}

func TestAggregateStats(t *testing.T) {
	summaries := []summarizer.Summary{
		makeSummary("a", "科技", extractor.TierReader),
		makeSummary("b", "科技", extractor.TierReader),
		makeSummary("c", "财经", extractor.TierFailed),
	}

	batch := Aggregate(testDate, summaries, nil)

	assert.Equal(t, 3, batch.Stats.Total)
	assert.Equal(t, 0, batch.Stats.ByTier[extractor.TierLLMDirect])
	assert.Equal(t, 2, batch.Stats.ByTier[extractor.TierReader])
	assert.Equal(t, 0, batch.Stats.ByTier[extractor.TierRSS])
	assert.Equal(t, 1, batch.Stats.ByTier[extractor.TierFailed])

	sum := 0
	for _, n := range batch.Stats.ByTier {
		sum += n
	}
	assert.Equal(t, batch.Stats.Total, sum, "tier buckets must add up to the total")

	entries := 0
	for _, section := range batch.Sections {
		entries += len(section.Summaries)
	}
	assert.Equal(t, batch.Stats.Total, entries)
}

func TestAggregateEveryTierBucketPresent(t *testing.T) {
	batch := Aggregate(testDate, nil, nil)
	assert.Equal(t, 0, batch.Stats.Total)
	for _, tier := range extractor.AllTiers() {
		_, ok := batch.Stats.ByTier[tier]
		assert.True(t, ok, "bucket for tier %s missing", tier)
	}
}

func TestAggregateCategoryOrdering(t *testing.T) {
	summaries := []summarizer.Summary{
		makeSummary("a", "Zeta", extractor.TierRSS),
		makeSummary("b", "财经", extractor.TierRSS),
		makeSummary("c", "Alpha", extractor.TierRSS),
		makeSummary("d", "科技", extractor.TierRSS),
	}

	batch := Aggregate(testDate, summaries, []string{"科技", "财经"})

	got := make([]string, len(batch.Sections))
	for i, s := range batch.Sections {
		got[i] = s.Category
	}
	// Priority list first, then unknown categories alphabetically.
	assert.Equal(t, []string{"科技", "财经", "Alpha", "Zeta"}, got)
}

func TestAggregatePreservesArrivalOrderWithinCategory(t *testing.T) {
	summaries := []summarizer.Summary{
		makeSummary("first", "科技", extractor.TierReader),
		makeSummary("second", "科技", extractor.TierRSS),
		makeSummary("third", "科技", extractor.TierReader),
	}

	batch := Aggregate(testDate, summaries, nil)
	require.Len(t, batch.Sections, 1)

	titles := make([]string, 0, 3)
	for _, s := range batch.Sections[0].Summaries {
		titles = append(titles, s.Article.Title)
	}
	assert.Equal(t, []string{"first", "second", "third"}, titles)
}

func TestAggregateIdempotent(t *testing.T) {
	summaries := []summarizer.Summary{
		makeSummary("a", "科技", extractor.TierReader),
		makeSummary("b", "财经", extractor.TierFailed),
		makeSummary("c", "Alpha", extractor.TierRSS),
	}
	priority := []string{"科技"}

	first := Aggregate(testDate, summaries, priority)
	second := Aggregate(testDate, summaries, priority)

	assert.Equal(t, first, second)
}

// Three articles, one of which failed every extraction tier.
func TestAggregateMixedScenario(t *testing.T) {
	summaries := []summarizer.Summary{
		makeSummary("ok1", "科技", extractor.TierReader),
		makeSummary("ok2", "科技", extractor.TierReader),
		makeSummary("lost", "科技", extractor.TierFailed),
	}

	batch := Aggregate(testDate, summaries, nil)

	assert.Equal(t, 3, batch.Stats.Total)
	assert.Equal(t, map[extractor.Tier]int{
		extractor.TierLLMDirect: 0,
		extractor.TierReader:    2,
		extractor.TierRSS:       0,
		extractor.TierFailed:    1,
	}, batch.Stats.ByTier)

	succeeded := 0
	for _, s := range batch.Sections[0].Summaries {
		if s.Succeeded {
			succeeded++
		}
	}
	assert.Equal(t, 2, succeeded)
}
