package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Paced wraps a Client and spaces out calls so a rate-limited backend is
// not hammered by concurrent workers.
type Paced struct {
	inner   Client
	limiter *rate.Limiter
}

var _ Client = (*Paced)(nil)

// NewPaced allows one call per interval with no burst beyond the first.
func NewPaced(inner Client, interval time.Duration) *Paced {
	return &Paced{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (p *Paced) Complete(ctx context.Context, prompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &Error{Reason: ReasonNetworkError, Err: err}
	}
	return p.inner.Complete(ctx, prompt)
}

func (p *Paced) CompleteFromURL(ctx context.Context, prompt, url string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &Error{Reason: ReasonNetworkError, Err: err}
	}
	return p.inner.CompleteFromURL(ctx, prompt, url)
}
