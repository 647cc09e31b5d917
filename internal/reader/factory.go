package reader

import (
	"fmt"
	"time"

	"github.com/autodigest/rss-digest/internal/config"
)

// New creates a reader service from the configuration, wrapped with call
// pacing when a request interval is configured.
func New(cfg config.ReaderConfig) (Service, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var svc Service
	switch cfg.Type {
	case "jina":
		svc = NewJinaReader(cfg.Endpoint, timeout)
	case "readability":
		svc = NewReadabilityReader(timeout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedReaderType, cfg.Type)
	}

	if cfg.RequestInterval > 0 {
		svc = NewPaced(svc, time.Duration(cfg.RequestInterval*float64(time.Second)))
	}
	return svc, nil
}
