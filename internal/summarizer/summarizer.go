// Package summarizer turns extracted article text into the structured
// digest entry: one Chinese core-viewpoint sentence plus bulleted key
// points.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/autodigest/rss-digest/internal/extractor"
	"github.com/autodigest/rss-digest/internal/fetcher"
	"github.com/autodigest/rss-digest/internal/llm"
)

// Summary is the per-article result. Succeeded is false when the summary
// was templated from title and link instead of generated from content.
type Summary struct {
	Article       fetcher.Article
	CoreViewpoint string
	KeyPoints     []string
	Tier          extractor.Tier
	Succeeded     bool
}

const promptTemplate = `Article Category: %s
Article URL: %s
Article Content:
%s

Please analyze this article and provide:
1. One-sentence core insight, 40-80 Chinese characters (核心观点)
2. Two to four key takeaways as bullet points (关键要点)

Format your response EXACTLY as:
**核心观点**: [your one-sentence insight in Chinese]

**关键要点**:
- [point in Chinese]
- [point in Chinese]

Remember: Think in English, output in Chinese.`

const correctivePrompt = `Your previous answer did not follow the required format. Respond again, and this time follow the format EXACTLY, with no extra commentary:

**核心观点**: [one sentence in Chinese]

**关键要点**:
- [point in Chinese]
- [point in Chinese]

Article Category: %s
Article URL: %s
Article Content:
%s`

// Summarizer generates summaries through a model backend.
type Summarizer struct {
	client    llm.Client
	maxRunes  int
	log       *slog.Logger
}

func New(client llm.Client, maxContentRunes int, log *slog.Logger) *Summarizer {
	return &Summarizer{client: client, maxRunes: maxContentRunes, log: log}
}

// Summarize produces a Summary for one extraction result. Failed
// extractions and malformed model output degrade to a templated summary;
// nothing here ever drops an article or propagates an error to the batch.
func (s *Summarizer) Summarize(ctx context.Context, res extractor.Result) Summary {
	if res.Failed() {
		return s.degraded(res)
	}

	content := truncateRunes(res.Body, s.maxRunes)

	prompt := fmt.Sprintf(promptTemplate, res.Article.Category, res.Article.Link, content)
	if summary, ok := s.attempt(ctx, prompt, res); ok {
		return summary
	}

	// One stricter retry before giving up on the structural contract.
	prompt = fmt.Sprintf(correctivePrompt, res.Article.Category, res.Article.Link, content)
	if summary, ok := s.attempt(ctx, prompt, res); ok {
		return summary
	}

	s.log.Warn("summarization failed, using templated summary",
		slog.String("link", res.Article.Link),
	)
	return s.degraded(res)
}

func (s *Summarizer) attempt(ctx context.Context, prompt string, res extractor.Result) (Summary, bool) {
	raw, err := s.client.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn("model call failed",
			slog.String("link", res.Article.Link),
			slog.Any("error", err),
		)
		return Summary{}, false
	}

	core, points, err := parseStructured(raw)
	if err != nil {
		s.log.Warn("model response malformed",
			slog.String("link", res.Article.Link),
			slog.Any("error", err),
		)
		return Summary{}, false
	}

	return Summary{
		Article:       res.Article,
		CoreViewpoint: core,
		KeyPoints:     points,
		Tier:          res.Tier,
		Succeeded:     true,
	}, true
}

// degraded builds a summary from what the feed entry alone provides.
func (s *Summarizer) degraded(res extractor.Result) Summary {
	core := strings.TrimSpace(res.Article.Summary)
	if core == "" {
		core = fmt.Sprintf("《%s》内容暂时无法获取，请点击原文查看。", res.Article.Title)
	} else {
		core = truncateRunes(core, 200)
	}
	return Summary{
		Article:       res.Article,
		CoreViewpoint: core,
		KeyPoints:     []string{fmt.Sprintf("原文需人工查看：%s", res.Article.Link)},
		Tier:          res.Tier,
		Succeeded:     false,
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
