// Package reader provides the content-reader boundary: services that turn
// an article URL into readable text.
package reader

import (
	"context"
	"errors"
	"fmt"
)

// FailureReason classifies why a reader call produced no text.
type FailureReason string

const (
	ReasonTimeout  FailureReason = "timeout"
	ReasonNotFound FailureReason = "not_found"
	ReasonBlocked  FailureReason = "blocked"
)

// Error is a typed reader failure. Timeouts are transient and worth one
// retry; not-found and blocked are permanent for the run.
type Error struct {
	Reason FailureReason
	URL    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reader: %s for %s: %v", e.Reason, e.URL, e.Err)
	}
	return fmt.Sprintf("reader: %s for %s", e.Reason, e.URL)
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether err is a reader failure that may succeed on
// retry.
func Transient(err error) bool {
	var re *Error
	if errors.As(err, &re) {
		return re.Reason == ReasonTimeout
	}
	return false
}

// Service extracts readable article text from a URL.
type Service interface {
	Extract(ctx context.Context, url string) (string, error)
}

// ErrUnsupportedReaderType is returned when an unsupported reader type is
// specified.
var ErrUnsupportedReaderType = errors.New("reader: unsupported reader type")
