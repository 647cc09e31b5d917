package reader

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Paced wraps a Service and spaces out calls to a rate-limited reader
// backend.
type Paced struct {
	inner   Service
	limiter *rate.Limiter
}

var _ Service = (*Paced)(nil)

// NewPaced allows one call per interval with no burst beyond the first.
func NewPaced(inner Service, interval time.Duration) *Paced {
	return &Paced{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (p *Paced) Extract(ctx context.Context, url string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &Error{Reason: ReasonTimeout, URL: url, Err: err}
	}
	return p.inner.Extract(ctx, url)
}
