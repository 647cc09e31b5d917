package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autodigest/rss-digest/internal/retry"
)

// JinaReader extracts article text through a Jina-style reader proxy:
// GET <endpoint>/<article-url> returns the page as markdown.
type JinaReader struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

var _ Service = (*JinaReader)(nil)

func NewJinaReader(endpoint string, timeout time.Duration) *JinaReader {
	return &JinaReader{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Extract fetches the readable rendition of url. Transient failures (5xx,
// timeouts) get exactly one retry; permanent failures (404, blocked) are
// returned immediately so the caller can fall through to the next tier.
func (r *JinaReader) Extract(ctx context.Context, url string) (string, error) {
	var text string
	cfg := retry.Config{
		MaxRetries: 1,
		BaseDelay:  500 * time.Millisecond,
		Retryable:  Transient,
	}
	err := retry.WithBackoff(ctx, cfg, func(ctx context.Context) error {
		var err error
		text, err = r.fetch(ctx, url)
		return err
	})
	if err != nil {
		// Unwrap to the typed reader error so callers see the reason.
		var re *Error
		if errors.As(err, &re) {
			return "", re
		}
		return "", err
	}
	return text, nil
}

func (r *JinaReader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"/"+url, nil)
	if err != nil {
		return "", fmt.Errorf("jina: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/markdown")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &Error{Reason: ReasonTimeout, URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return "", &Error{Reason: ReasonNotFound, URL: url}
	case retry.HTTPStatusRetryable(resp.StatusCode):
		return "", &Error{Reason: ReasonTimeout, URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	default:
		return "", &Error{Reason: ReasonBlocked, URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Reason: ReasonTimeout, URL: url, Err: err}
	}
	return string(body), nil
}
