// Package llm provides the model-backend boundary used for both content
// extraction (direct URL reads) and summarization.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// FailureReason classifies a failed model call.
type FailureReason string

const (
	ReasonNetworkError FailureReason = "network_error"
	ReasonRateLimited  FailureReason = "rate_limited"
	ReasonRefused      FailureReason = "refused"
	ReasonMalformed    FailureReason = "malformed"
)

// Error is a typed model-backend failure.
type Error struct {
	Reason FailureReason
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("llm: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrURLReadUnsupported is returned by CompleteFromURL for backends that
// cannot read pages themselves.
var ErrURLReadUnsupported = errors.New("llm: backend does not support direct URL reading")

// ErrUnsupportedProvider is returned when an unsupported llm provider is
// specified.
var ErrUnsupportedProvider = errors.New("llm: unsupported provider")

// Client is a synchronous model backend.
type Client interface {
	// Complete sends prompt and returns the raw completion text.
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteFromURL asks the backend to read url itself and answer
	// prompt about it. Backends without browsing return
	// ErrURLReadUnsupported.
	CompleteFromURL(ctx context.Context, prompt, url string) (string, error)
}

// statusError maps an HTTP status to a typed failure.
func statusError(status int, body string) *Error {
	reason := ReasonNetworkError
	switch {
	case status == 429:
		reason = ReasonRateLimited
	case status == 401 || status == 403:
		reason = ReasonRefused
	case status >= 400 && status < 500:
		reason = ReasonMalformed
	}
	return &Error{Reason: reason, Err: fmt.Errorf("status %d: %s", status, body)}
}
