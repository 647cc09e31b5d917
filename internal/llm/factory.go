package llm

import (
	"fmt"
	"time"

	"github.com/autodigest/rss-digest/internal/config"
)

// New creates a model backend from the configuration, wrapped with call
// pacing when a request interval is configured.
func New(cfg config.LLMConfig) (Client, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var client Client
	switch cfg.Provider {
	case "gemini":
		client = NewGeminiClient(cfg.APIKey, cfg.Model, timeout)
	case "deepseek":
		client = NewDeepSeekClient(cfg.APIKey, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}

	if cfg.RequestInterval > 0 {
		client = NewPaced(client, time.Duration(cfg.RequestInterval*float64(time.Second)))
	}
	return client, nil
}
