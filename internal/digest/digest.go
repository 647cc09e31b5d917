// Package digest builds the per-run batch: summaries grouped by category
// with acquisition statistics.
package digest

import (
	"sort"
	"time"

	"github.com/autodigest/rss-digest/internal/extractor"
	"github.com/autodigest/rss-digest/internal/summarizer"
)

// Stats counts how articles were acquired. Every article lands in exactly
// one tier bucket, so Total always equals the bucket sum.
type Stats struct {
	Total  int
	ByTier map[extractor.Tier]int
}

// Section is one category's summaries in arrival order.
type Section struct {
	Category  string
	Summaries []summarizer.Summary
}

// Batch is the complete digest for one run. Immutable once built.
type Batch struct {
	Date     time.Time
	Sections []Section
	Stats    Stats
}

// Aggregate groups summaries by category and computes acquisition stats.
// Categories follow the priority list first; categories not on the list
// are appended alphabetically. Within a category the input order is
// preserved, so identical input always yields an identical batch.
func Aggregate(date time.Time, summaries []summarizer.Summary, priority []string) *Batch {
	byTier := make(map[extractor.Tier]int, len(extractor.AllTiers()))
	for _, tier := range extractor.AllTiers() {
		byTier[tier] = 0
	}

	byCategory := make(map[string][]summarizer.Summary)
	var categories []string
	for _, s := range summaries {
		byTier[s.Tier]++
		if _, ok := byCategory[s.Article.Category]; !ok {
			categories = append(categories, s.Article.Category)
		}
		byCategory[s.Article.Category] = append(byCategory[s.Article.Category], s)
	}

	rank := make(map[string]int, len(priority))
	for i, c := range priority {
		rank[c] = i
	}
	sort.SliceStable(categories, func(i, j int) bool {
		ri, rj := categoryRank(rank, categories[i]), categoryRank(rank, categories[j])
		if ri != rj {
			return ri < rj
		}
		return categories[i] < categories[j]
	})

	sections := make([]Section, 0, len(categories))
	for _, c := range categories {
		sections = append(sections, Section{Category: c, Summaries: byCategory[c]})
	}

	return &Batch{
		Date:     date,
		Sections: sections,
		Stats:    Stats{Total: len(summaries), ByTier: byTier},
	}
}

// categoryRank gives priority-list categories their list index and
// everything else a rank past the end, where the alphabetical tiebreak
// takes over.
func categoryRank(rank map[string]int, category string) int {
	if r, ok := rank[category]; ok {
		return r
	}
	return len(rank)
}
