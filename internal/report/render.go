package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/autodigest/rss-digest/internal/digest"
	"github.com/autodigest/rss-digest/internal/extractor"
)

// Renderer turns a digest batch into the markdown document. Pure
// formatting, no decisions: everything it prints was decided upstream.
type Renderer struct {
	// FoldFailed merges the failed bucket into the RSS降级 count in the
	// statistics line instead of printing a fourth bucket.
	FoldFailed bool
	Location   *time.Location
	Now        func() time.Time
}

func NewRenderer(foldFailed bool, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return &Renderer{FoldFailed: foldFailed, Location: loc, Now: time.Now}
}

// Render produces the dated digest document.
func (r *Renderer) Render(batch *digest.Batch) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# RSS Digest - %s\n\n", batch.Date.In(r.Location).Format("2006-01-02"))
	fmt.Fprintf(&b, "> 本日共收录 **%d** 篇文章，来自 **%d** 个分类。\n>\n", batch.Stats.Total, len(batch.Sections))
	b.WriteString(r.statsLine(batch.Stats))
	b.WriteString("\n\n---\n\n")

	for _, section := range batch.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Category)
		for _, s := range section.Summaries {
			article := s.Article
			fmt.Fprintf(&b, "### [%s](%s)\n", article.Title, article.Link)
			fmt.Fprintf(&b, "> 来源: %s | 发布时间: %s\n\n", article.Source, article.Published.In(r.Location).Format("2006-01-02 15:04"))
			if !s.Succeeded {
				b.WriteString("> ⚠️ 内容获取受限，以下摘要基于标题与条目信息生成。\n\n")
			}
			fmt.Fprintf(&b, "**核心观点**: %s\n\n", s.CoreViewpoint)
			b.WriteString("**关键要点**:\n")
			for _, point := range s.KeyPoints {
				fmt.Fprintf(&b, "- %s\n", point)
			}
			b.WriteString("\n---\n\n")
		}
	}

	fmt.Fprintf(&b, "*Generated at %s*\n", r.Now().In(r.Location).Format("2006-01-02 15:04:05"))
	return b.String()
}

// RenderEmpty produces the document for a run with no recent articles.
func (r *Renderer) RenderEmpty(date time.Time) string {
	return fmt.Sprintf(`# RSS Digest - %s

> 📭 今日无新文章收录。

---

*Generated at %s*
`, date.In(r.Location).Format("2006-01-02"), r.Now().In(r.Location).Format("2006-01-02 15:04:05"))
}

func (r *Renderer) statsLine(stats digest.Stats) string {
	rssCount := stats.ByTier[extractor.TierRSS]
	failedCount := stats.ByTier[extractor.TierFailed]
	if r.FoldFailed {
		rssCount += failedCount
	}

	line := fmt.Sprintf("> 📊 内容获取统计：LLM直读 %d | Reader服务 %d | RSS降级 %d",
		stats.ByTier[extractor.TierLLMDirect],
		stats.ByTier[extractor.TierReader],
		rssCount,
	)
	if !r.FoldFailed {
		line += fmt.Sprintf(" | 获取失败 %d", failedCount)
	}
	return line
}
