package reader

import (
	"context"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// ReadabilityReader extracts article text locally with go-readability
// instead of calling a remote reader proxy. No retry: local extraction
// has no transient failure class worth repeating within a run.
type ReadabilityReader struct {
	timeout time.Duration
}

var _ Service = (*ReadabilityReader)(nil)

func NewReadabilityReader(timeout time.Duration) *ReadabilityReader {
	return &ReadabilityReader{timeout: timeout}
}

func (r *ReadabilityReader) Extract(_ context.Context, url string) (string, error) {
	article, err := readability.FromURL(url, r.timeout)
	if err != nil {
		return "", classifyReadabilityError(url, err)
	}
	return article.TextContent, nil
}

func classifyReadabilityError(url string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "404") || strings.Contains(msg, "not found"):
		return &Error{Reason: ReasonNotFound, URL: url, Err: err}
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return &Error{Reason: ReasonTimeout, URL: url, Err: err}
	default:
		return &Error{Reason: ReasonBlocked, URL: url, Err: err}
	}
}
