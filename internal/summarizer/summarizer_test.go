package summarizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodigest/rss-digest/internal/extractor"
	"github.com/autodigest/rss-digest/internal/fetcher"
)

const wellFormed = `**核心观点**: 这篇文章认为大模型正在改变内容分发的格局。

**关键要点**:
- 第一个要点
- 第二个要点
- 第三个要点`

// scriptedLLM returns canned responses in order, one per Complete call.
type scriptedLLM struct {
	responses []string
	errs      []error
	calls     int
}

func (s *scriptedLLM) Complete(context.Context, string) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp string
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

func (s *scriptedLLM) CompleteFromURL(context.Context, string, string) (string, error) {
	return "", errors.New("not used")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleResult(tier extractor.Tier, body string) extractor.Result {
	return extractor.Result{
		Article: fetcher.Article{
			Title:    "测试文章",
			Link:     "https://example.com/post",
			Source:   "Test Feed",
			Summary:  "feed snippet",
			Category: "科技",
		},
		Body: body,
		Tier: tier,
	}
}

func TestSummarizeWellFormed(t *testing.T) {
	client := &scriptedLLM{responses: []string{wellFormed}}
	s := New(client, 15000, testLogger())

	sum := s.Summarize(context.Background(), sampleResult(extractor.TierReader, "article body"))

	assert.True(t, sum.Succeeded)
	assert.Equal(t, extractor.TierReader, sum.Tier)
	assert.Equal(t, "这篇文章认为大模型正在改变内容分发的格局。", sum.CoreViewpoint)
	assert.Equal(t, []string{"第一个要点", "第二个要点", "第三个要点"}, sum.KeyPoints)
	assert.Equal(t, 1, client.calls)
}

func TestSummarizeRetriesOnceOnMalformed(t *testing.T) {
	client := &scriptedLLM{responses: []string{"好的，我来总结一下这篇文章。", wellFormed}}
	s := New(client, 15000, testLogger())

	sum := s.Summarize(context.Background(), sampleResult(extractor.TierReader, "article body"))

	assert.True(t, sum.Succeeded)
	assert.Equal(t, 2, client.calls, "expected exactly one corrective retry")
}

func TestSummarizeFallsBackAfterSecondFailure(t *testing.T) {
	client := &scriptedLLM{responses: []string{"nope", "still nope"}}
	s := New(client, 15000, testLogger())

	sum := s.Summarize(context.Background(), sampleResult(extractor.TierReader, "article body"))

	assert.False(t, sum.Succeeded)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, extractor.TierReader, sum.Tier, "tier reflects extraction, not summarization")
	assert.Equal(t, "feed snippet", sum.CoreViewpoint)
	require.Len(t, sum.KeyPoints, 1)
	assert.Contains(t, sum.KeyPoints[0], "https://example.com/post")
}

func TestSummarizeFailedExtractionIsTemplated(t *testing.T) {
	client := &scriptedLLM{}
	s := New(client, 15000, testLogger())

	res := sampleResult(extractor.TierFailed, "")
	res.Article.Summary = ""
	sum := s.Summarize(context.Background(), res)

	assert.False(t, sum.Succeeded)
	assert.Equal(t, extractor.TierFailed, sum.Tier)
	assert.Contains(t, sum.CoreViewpoint, "测试文章")
	assert.Equal(t, 0, client.calls, "failed extraction must not hit the model")
}

func TestSummarizeModelErrorThenRecovery(t *testing.T) {
	client := &scriptedLLM{
		responses: []string{"", wellFormed},
		errs:      []error{errors.New("rate limited"), nil},
	}
	s := New(client, 15000, testLogger())

	sum := s.Summarize(context.Background(), sampleResult(extractor.TierRSS, "snippet body"))
	assert.True(t, sum.Succeeded)
	assert.Equal(t, extractor.TierRSS, sum.Tier)
}

func TestParseStructured(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCore  string
		wantN     int
		wantError bool
	}{
		{
			name:     "canonical",
			raw:      wellFormed,
			wantCore: "这篇文章认为大模型正在改变内容分发的格局。",
			wantN:    3,
		},
		{
			name:     "fenced",
			raw:      "```markdown\n" + wellFormed + "\n```",
			wantCore: "这篇文章认为大模型正在改变内容分发的格局。",
			wantN:    3,
		},
		{
			name:     "fullwidth colon and star bullets",
			raw:      "**核心观点**：观点句。\n\n**关键要点**:\n* 要点一\n* 要点二",
			wantCore: "观点句。",
			wantN:    2,
		},
		{
			name:     "extra bullets capped at five",
			raw:      "**核心观点**: 观点。\n\n**关键要点**:\n- a\n- b\n- c\n- d\n- e\n- f\n- g",
			wantCore: "观点。",
			wantN:    5,
		},
		{name: "missing markers", raw: "这是一段没有结构的文字。", wantError: true},
		{name: "markers out of order", raw: "**关键要点**:\n- a\n**核心观点**: x", wantError: true},
		{name: "empty core", raw: "**核心观点**: \n**关键要点**:\n- a", wantError: true},
		{name: "no bullets", raw: "**核心观点**: 观点。\n**关键要点**:\n没有列表", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, points, err := parseStructured(tt.raw)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCore, core)
			assert.Len(t, points, tt.wantN)
		})
	}
}
